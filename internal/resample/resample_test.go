package resample

import (
	"errors"
	"testing"

	"github.com/nawwwal/nanopng/internal/pixel"
)

func solidImage(t *testing.T, w, h int, r, g, b, a byte) pixel.Image {
	t.Helper()
	im, err := pixel.New(w, h)
	if err != nil {
		t.Fatalf("new %dx%d image: %v", w, h, err)
	}
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i] = r
		im.Pix[i+1] = g
		im.Pix[i+2] = b
		im.Pix[i+3] = a
	}
	return im
}

func TestResampleRejectsZeroDimensions(t *testing.T) {
	im := solidImage(t, 4, 4, 10, 20, 30, 255)
	if _, err := Resample(im, 0, 4, KernelLanczos3); !errors.Is(err, pixel.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension for zero width, got %v", err)
	}
	if _, err := Resample(pixel.Image{}, 4, 4, KernelLanczos3); !errors.Is(err, pixel.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension for empty source, got %v", err)
	}
}

func TestResampleSolidColorStaysSolid(t *testing.T) {
	im := solidImage(t, 16, 16, 200, 100, 50, 255)
	for _, k := range []Kernel{KernelNearest, KernelBilinear, KernelCatmullRom, KernelMitchell, KernelLanczos3} {
		out, err := Resample(im, 7, 5, k)
		if err != nil {
			t.Fatalf("%v: resample: %v", k, err)
		}
		if out.Width != 7 || out.Height != 5 {
			t.Fatalf("%v: expected 7x5, got %dx%d", k, out.Width, out.Height)
		}
		for i := 0; i < len(out.Pix); i += 4 {
			if out.Pix[i] != 200 || out.Pix[i+1] != 100 || out.Pix[i+2] != 50 || out.Pix[i+3] != 255 {
				t.Fatalf("%v: pixel %d drifted: %v", k, i/4, out.Pix[i:i+4])
			}
		}
	}
}

// A fully transparent region must not bleed its RGB values into opaque
// neighbors; premultiplication makes transparent RGB weightless.
func TestResamplePremultipliesAlpha(t *testing.T) {
	im := solidImage(t, 16, 16, 255, 255, 255, 255)
	// Right half: garish green, fully transparent.
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			idx := (y*16 + x) * 4
			im.Pix[idx] = 0
			im.Pix[idx+1] = 255
			im.Pix[idx+2] = 0
			im.Pix[idx+3] = 0
		}
	}

	out, err := Resample(im, 8, 8, KernelLanczos3)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}

	// Leftmost column is far from the transparent half; it must stay
	// white wherever it is still fully opaque.
	for y := 0; y < 8; y++ {
		idx := (y*8 + 0) * 4
		if a := out.Pix[idx+3]; a != 255 {
			continue
		}
		if out.Pix[idx+1] != 255 || out.Pix[idx] != 255 {
			t.Fatalf("row %d: transparent green bled into opaque white: %v", y, out.Pix[idx:idx+4])
		}
	}
}

func TestResampleNearestPreservesExactPixels(t *testing.T) {
	im := solidImage(t, 2, 2, 0, 0, 0, 255)
	im.Pix[0] = 255                   // (0,0) red
	im.Pix[(1*2+1)*4+2] = 255         // (1,1) blue
	out, err := Resample(im, 4, 4, KernelNearest)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if out.Pix[0] != 255 {
		t.Fatalf("nearest upscale lost the top-left red pixel: %v", out.Pix[0:4])
	}
	last := (3*4 + 3) * 4
	if out.Pix[last+2] != 255 {
		t.Fatalf("nearest upscale lost the bottom-right blue pixel: %v", out.Pix[last:last+4])
	}
}

func TestParseKernel(t *testing.T) {
	cases := map[string]Kernel{
		"Nearest":    KernelNearest,
		"bilinear":   KernelBilinear,
		"CatmullRom": KernelCatmullRom,
		"mitchell":   KernelMitchell,
		"Lanczos3":   KernelLanczos3,
		"unknown":    KernelLanczos3,
		"":           KernelLanczos3,
	}
	for in, want := range cases {
		if got := ParseKernel(in); got != want {
			t.Fatalf("ParseKernel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKernelWeights(t *testing.T) {
	// Lanczos3 interpolates: 1 at t=0, 0 at nonzero integers.
	if got := lanczos3.At(0); got != 1 {
		t.Fatalf("lanczos3 weight at 0 is %f, want 1", got)
	}
	for _, t0 := range []float64{1, 2, 3} {
		if got := lanczos3.At(t0); got > 1e-9 || got < -1e-9 {
			t.Fatalf("lanczos3 weight at %f is %f, want 0", t0, got)
		}
	}

	// Mitchell (B=C=1/3) approximates: 16/18 at t=0, 1/18 at t=1, 0 at t=2.
	if got := mitchell.At(0); got < 0.888 || got > 0.889 {
		t.Fatalf("mitchell weight at 0 is %f, want 16/18", got)
	}
	if got := mitchell.At(1); got < 0.055 || got > 0.056 {
		t.Fatalf("mitchell weight at 1 is %f, want 1/18", got)
	}
	if got := mitchell.At(2); got != 0 {
		t.Fatalf("mitchell weight at 2 is %f, want 0", got)
	}
}
