// Package transform provides pure geometric pixel remaps. Every
// function is total over well-formed images and returns a fresh buffer.
package transform

import "github.com/nawwwal/nanopng/internal/pixel"

// Rotate90CW rotates a quarter turn clockwise; output dimensions swap.
func Rotate90CW(im pixel.Image) pixel.Image {
	out := pixel.Image{
		Pix:    make([]byte, len(im.Pix)),
		Width:  im.Height,
		Height: im.Width,
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			src := (y*im.Width + x) * 4
			dst := (x*out.Width + (im.Height - 1 - y)) * 4
			copy(out.Pix[dst:dst+4], im.Pix[src:src+4])
		}
	}
	return out
}

// Rotate180 rotates a half turn; dimensions are unchanged.
func Rotate180(im pixel.Image) pixel.Image {
	out := pixel.Image{
		Pix:    make([]byte, len(im.Pix)),
		Width:  im.Width,
		Height: im.Height,
	}
	total := im.Width * im.Height
	for i := 0; i < total; i++ {
		src := i * 4
		dst := (total - 1 - i) * 4
		copy(out.Pix[dst:dst+4], im.Pix[src:src+4])
	}
	return out
}

// Rotate270CW rotates a quarter turn counter-clockwise; output
// dimensions swap.
func Rotate270CW(im pixel.Image) pixel.Image {
	out := pixel.Image{
		Pix:    make([]byte, len(im.Pix)),
		Width:  im.Height,
		Height: im.Width,
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			src := (y*im.Width + x) * 4
			dst := ((im.Width-1-x)*out.Width + y) * 4
			copy(out.Pix[dst:dst+4], im.Pix[src:src+4])
		}
	}
	return out
}

// FlipHorizontal mirrors left-right.
func FlipHorizontal(im pixel.Image) pixel.Image {
	out := pixel.Image{
		Pix:    make([]byte, len(im.Pix)),
		Width:  im.Width,
		Height: im.Height,
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			src := (y*im.Width + x) * 4
			dst := (y*im.Width + (im.Width - 1 - x)) * 4
			copy(out.Pix[dst:dst+4], im.Pix[src:src+4])
		}
	}
	return out
}

// FlipVertical mirrors top-bottom by copying whole rows.
func FlipVertical(im pixel.Image) pixel.Image {
	out := pixel.Image{
		Pix:    make([]byte, len(im.Pix)),
		Width:  im.Width,
		Height: im.Height,
	}
	rowBytes := im.Width * 4
	for y := 0; y < im.Height; y++ {
		src := y * rowBytes
		dst := (im.Height - 1 - y) * rowBytes
		copy(out.Pix[dst:dst+rowBytes], im.Pix[src:src+rowBytes])
	}
	return out
}

// Apply runs the requested transforms in fixed order: rotation first,
// then horizontal flip, then vertical flip. A rotation outside
// {90, 180, 270} is a no-op.
func Apply(im pixel.Image, rotation int, flipH, flipV bool) pixel.Image {
	out := im
	applied := false
	switch rotation {
	case 90:
		out = Rotate90CW(out)
		applied = true
	case 180:
		out = Rotate180(out)
		applied = true
	case 270:
		out = Rotate270CW(out)
		applied = true
	}
	if flipH {
		out = FlipHorizontal(out)
		applied = true
	}
	if flipV {
		out = FlipVertical(out)
		applied = true
	}
	if !applied {
		// Still hand back an owned buffer.
		return im.Clone()
	}
	return out
}
