// Package resample scales RGBA8 buffers between arbitrary dimensions
// and computes fit-mode geometry. Kernel math is delegated to
// golang.org/x/image/draw; the alpha premultiply and un-premultiply
// passes around it are owned here because they are part of the
// resampling contract, not an implementation detail.
package resample

import (
	"fmt"
	"image"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/nawwwal/nanopng/internal/pixel"
)

// Kernel selects the resampling filter.
type Kernel int

const (
	// KernelLanczos3 is the default high-quality windowed filter.
	KernelLanczos3 Kernel = iota
	// KernelNearest is point sampling, for pixel-art fidelity.
	KernelNearest
	KernelBilinear
	KernelCatmullRom
	KernelMitchell
)

// ParseKernel maps a host-supplied name to a Kernel. Unrecognized
// names resolve to KernelLanczos3.
func ParseKernel(name string) Kernel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return KernelNearest
	case "bilinear":
		return KernelBilinear
	case "catmullrom":
		return KernelCatmullRom
	case "mitchell":
		return KernelMitchell
	default:
		return KernelLanczos3
	}
}

func (k Kernel) String() string {
	switch k {
	case KernelNearest:
		return "nearest"
	case KernelBilinear:
		return "bilinear"
	case KernelCatmullRom:
		return "catmullrom"
	case KernelMitchell:
		return "mitchell"
	default:
		return "lanczos3"
	}
}

// Mitchell-Netravali with B = C = 1/3.
var mitchell = &xdraw.Kernel{Support: 2, At: func(t float64) float64 {
	if t < 0 {
		t = -t
	}
	switch {
	case t < 1:
		return (21*t*t*t - 36*t*t + 16) / 18
	case t < 2:
		return (-7*t*t*t + 36*t*t - 60*t + 32) / 18
	}
	return 0
}}

// Lanczos windowed sinc with a = 3.
var lanczos3 = &xdraw.Kernel{Support: 3, At: func(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t >= 3 {
		return 0
	}
	if t == 0 {
		return 1
	}
	pt := math.Pi * t
	return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
}}

func (k Kernel) scaler() xdraw.Scaler {
	switch k {
	case KernelNearest:
		return xdraw.NearestNeighbor
	case KernelBilinear:
		return xdraw.BiLinear
	case KernelCatmullRom:
		return xdraw.CatmullRom
	case KernelMitchell:
		return mitchell
	default:
		return lanczos3
	}
}

// Resample scales im to dstW x dstH. RGB channels are premultiplied by
// alpha before the kernel runs and un-premultiplied afterwards;
// skipping either pass produces fringing at semi-transparent edges.
func Resample(im pixel.Image, dstW, dstH int, kernel Kernel) (pixel.Image, error) {
	if im.Empty() {
		return pixel.Image{}, fmt.Errorf("%w: source is %dx%d", pixel.ErrInvalidDimension, im.Width, im.Height)
	}
	if dstW <= 0 || dstH <= 0 {
		return pixel.Image{}, fmt.Errorf("%w: destination is %dx%d", pixel.ErrInvalidDimension, dstW, dstH)
	}
	if len(im.Pix) != im.Width*im.Height*4 {
		return pixel.Image{}, fmt.Errorf("%w: buffer length %d does not match %dx%d RGBA",
			pixel.ErrInvalidDimension, len(im.Pix), im.Width, im.Height)
	}

	src := &image.RGBA{
		Pix:    premultiply(im.Pix),
		Stride: im.Width * 4,
		Rect:   image.Rect(0, 0, im.Width, im.Height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	kernel.scaler().Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)

	out, err := pixel.FromPix(unpremultiply(dst.Pix), dstW, dstH)
	if err != nil {
		return pixel.Image{}, err
	}
	return out, nil
}

// premultiply returns a new buffer with rgb' = rgb * a / 255.
func premultiply(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		out[i] = byte((uint32(pix[i])*a + 127) / 255)
		out[i+1] = byte((uint32(pix[i+1])*a + 127) / 255)
		out[i+2] = byte((uint32(pix[i+2])*a + 127) / 255)
		out[i+3] = byte(a)
	}
	return out
}

// unpremultiply reverses premultiply: rgb = clamp(rgb' * 255 / a), with
// fully transparent pixels forced to zero.
func unpremultiply(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0 {
			out[i+3] = 0
			continue
		}
		out[i] = clamp255((uint32(pix[i])*255 + a/2) / a)
		out[i+1] = clamp255((uint32(pix[i+1])*255 + a/2) / a)
		out[i+2] = clamp255((uint32(pix[i+2])*255 + a/2) / a)
		out[i+3] = byte(a)
	}
	return out
}

func clamp255(v uint32) byte {
	if v > 255 {
		return 255
	}
	return byte(v)
}
