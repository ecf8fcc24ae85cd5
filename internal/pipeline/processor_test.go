package pipeline

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/pixel"
	"github.com/nawwwal/nanopng/internal/resample"
)

// buildTestImage produces a white canvas with a centered dark block,
// so trim, crop and resize stages all have something to bite on.
func buildTestImage(t *testing.T, w, h int) pixel.Image {
	t.Helper()
	im, err := pixel.New(w, h)
	if err != nil {
		t.Fatalf("new %dx%d image: %v", w, h, err)
	}
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i] = 255
		im.Pix[i+1] = 255
		im.Pix[i+2] = 255
		im.Pix[i+3] = 255
	}
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			idx := (y*w + x) * 4
			im.Pix[idx] = 30
			im.Pix[idx+1] = 30
			im.Pix[idx+2] = 30
		}
	}
	return im
}

func TestRunNoOpReturnsSamePixels(t *testing.T) {
	src := buildTestImage(t, 16, 16)
	out, err := Run(src, DefaultOptions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Width != 16 || out.Height != 16 || !bytes.Equal(out.Pix, src.Pix) {
		t.Fatal("default options must leave pixels unchanged")
	}
}

func TestRunRejectsEmptyImage(t *testing.T) {
	if _, err := Run(pixel.Image{}, DefaultOptions()); err == nil {
		t.Fatal("expected error for zero-area image")
	}
}

func TestRunInvalidConfigFailsFast(t *testing.T) {
	opts := DefaultOptions()
	opts.Rotate = 33
	if _, err := Run(buildTestImage(t, 8, 8), opts); err == nil {
		t.Fatal("expected validation error before any stage runs")
	}
}

func TestRunAutoTrimThenResize(t *testing.T) {
	src := buildTestImage(t, 40, 40)
	opts := DefaultOptions()
	opts.AutoTrim = true
	opts.AutoTrimThreshold = 10
	opts.Resize = &ResizeOptions{Width: 10, Height: 10, Fit: resample.FitFill}

	out, err := Run(src, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Width != 10 || out.Height != 10 {
		t.Fatalf("expected 10x10, got %dx%d", out.Width, out.Height)
	}
}

func TestRunCoverResizeCropsToTarget(t *testing.T) {
	src := buildTestImage(t, 40, 20)
	opts := DefaultOptions()
	opts.Resize = &ResizeOptions{Width: 10, Height: 10, Fit: resample.FitCover, Kernel: resample.KernelBilinear}

	out, err := Run(src, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Width != 10 || out.Height != 10 {
		t.Fatalf("cover must produce exact target size, got %dx%d", out.Width, out.Height)
	}
}

func TestRunRotateSwapsDimensions(t *testing.T) {
	src := buildTestImage(t, 20, 10)
	opts := DefaultOptions()
	opts.Rotate = 90

	out, err := Run(src, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Width != 10 || out.Height != 20 {
		t.Fatalf("expected 10x20 after rotate, got %dx%d", out.Width, out.Height)
	}
}

func TestRunCropOutOfBoundsAborts(t *testing.T) {
	opts := DefaultOptions()
	opts.Crop = &pixel.Region{X: 10, Y: 10, Width: 20, Height: 20}
	if _, err := Run(buildTestImage(t, 16, 16), opts); err == nil {
		t.Fatal("expected crop bounds error")
	}
}

func TestLocalProcessor_FileInTransformFileOut(t *testing.T) {
	tmp := t.TempDir()
	inputPath := tmp + "/input.png"
	outputDir := tmp + "/out"

	src := buildTestImage(t, 64, 48)
	encoded, err := codec.Encode(src, codec.FormatPNG, codec.EncodeOptions{Lossless: true})
	if err != nil {
		t.Fatalf("encode source: %v", err)
	}
	if err := os.WriteFile(inputPath, encoded, 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	opts := DefaultOptions()
	opts.Format = codec.FormatJPEG
	opts.Quality = 85
	opts.Resize = &ResizeOptions{Width: 32, Height: 32, Fit: resample.FitContain}

	processor := NewLocalProcessor(outputDir)
	out, err := processor.Process(context.Background(), Request{
		JobID:      "job-local-1",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Options:    opts,
	})
	if err != nil {
		t.Fatalf("process request: %v", err)
	}

	if out.Format != codec.FormatJPEG {
		t.Fatalf("expected jpeg output, got %s", out.Format)
	}
	if out.Width != 32 || out.Height != 24 {
		t.Fatalf("contain 64x48 -> 32x32 should give 32x24, got %dx%d", out.Width, out.Height)
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	decoded, format, err := codec.Decode(data)
	if err != nil || format != codec.FormatJPEG {
		t.Fatalf("decode output: format=%v err=%v", format, err)
	}
	if decoded.Width != 32 || decoded.Height != 24 {
		t.Fatalf("output file is %dx%d, want 32x24", decoded.Width, decoded.Height)
	}
}

func TestLocalProcessor_UnsupportedSourceType(t *testing.T) {
	processor := NewLocalProcessor(t.TempDir())
	_, err := processor.Process(context.Background(), Request{
		JobID:      "job-unsupported",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job/source",
		Options:    DefaultOptions(),
	})
	if err == nil {
		t.Fatal("expected unsupported source_type error")
	}
}
