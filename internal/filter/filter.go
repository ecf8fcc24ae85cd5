// Package filter implements spatial filters over RGBA8 buffers: a
// separable box blur, an unsharp-mask sharpen, background-aware
// content-bounds detection, and auto-trim built on top of it.
package filter

import "github.com/nawwwal/nanopng/internal/pixel"

const maxBlurRadius = 50

// BoxBlur applies a two-pass separable box filter with the given
// radius (clamped to 50). The averaging window clips at image edges,
// so the divisor shrinks there instead of wrapping or replicating.
// A radius of 0 or an image smaller than 3px on a side is returned
// unchanged (as an owned copy).
func BoxBlur(im pixel.Image, radius int) pixel.Image {
	if radius <= 0 || im.Width < 3 || im.Height < 3 {
		return im.Clone()
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	w, h := im.Width, im.Height
	mid := make([]byte, len(im.Pix))

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			lo := max(0, x-radius)
			hi := min(w-1, x+radius)
			var r, g, b, a, count int
			for i := lo; i <= hi; i++ {
				idx := row + i*4
				r += int(im.Pix[idx])
				g += int(im.Pix[idx+1])
				b += int(im.Pix[idx+2])
				a += int(im.Pix[idx+3])
				count++
			}
			idx := row + x*4
			mid[idx] = byte(r / count)
			mid[idx+1] = byte(g / count)
			mid[idx+2] = byte(b / count)
			mid[idx+3] = byte(a / count)
		}
	}

	// Vertical pass over the intermediate buffer.
	out := make([]byte, len(im.Pix))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			lo := max(0, y-radius)
			hi := min(h-1, y+radius)
			var r, g, b, a, count int
			for i := lo; i <= hi; i++ {
				idx := (i*w + x) * 4
				r += int(mid[idx])
				g += int(mid[idx+1])
				b += int(mid[idx+2])
				a += int(mid[idx+3])
				count++
			}
			idx := (y*w + x) * 4
			out[idx] = byte(r / count)
			out[idx+1] = byte(g / count)
			out[idx+2] = byte(b / count)
			out[idx+3] = byte(a / count)
		}
	}

	return pixel.Image{Pix: out, Width: w, Height: h}
}

// Sharpen applies an unsharp mask: each interior RGB channel is pushed
// toward 5*center - top - bottom - left - right, blended by amount
// (clamped to 1). Alpha and the 1-pixel border are left untouched.
// amount <= 0 or an image smaller than 3px on a side is returned
// unchanged (as an owned copy).
func Sharpen(im pixel.Image, amount float64) pixel.Image {
	if amount <= 0 || im.Width < 3 || im.Height < 3 {
		return im.Clone()
	}
	if amount > 1 {
		amount = 1
	}

	w, h := im.Width, im.Height
	out := im.Clone()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := (y*w + x) * 4
			for c := 0; c < 3; c++ {
				center := float64(im.Pix[idx+c])
				top := float64(im.Pix[((y-1)*w+x)*4+c])
				bottom := float64(im.Pix[((y+1)*w+x)*4+c])
				left := float64(im.Pix[(y*w+x-1)*4+c])
				right := float64(im.Pix[(y*w+x+1)*4+c])

				sharpened := 5*center - top - bottom - left - right
				blended := center + (sharpened-center)*amount
				if blended < 0 {
					blended = 0
				} else if blended > 255 {
					blended = 255
				}
				out.Pix[idx+c] = byte(blended)
			}
		}
	}
	return out
}

// DetectContentBounds estimates the background color as the average
// RGB of the four corner pixels, then returns the bounding box of all
// pixels whose RGB differs from that estimate by more than threshold
// on any channel. It returns false when the image is entirely
// background or when the box covers the full image (nothing to trim).
func DetectContentBounds(im pixel.Image, threshold uint8) (pixel.Region, bool) {
	if im.Empty() {
		return pixel.Region{}, false
	}

	w, h := im.Width, im.Height
	corners := [4][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}}
	var bgR, bgG, bgB int
	for _, c := range corners {
		idx := (c[1]*w + c[0]) * 4
		bgR += int(im.Pix[idx])
		bgG += int(im.Pix[idx+1])
		bgB += int(im.Pix[idx+2])
	}
	bgR /= 4
	bgG /= 4
	bgB /= 4

	tol := int(threshold)
	isBackground := func(idx int) bool {
		return abs(int(im.Pix[idx])-bgR) <= tol &&
			abs(int(im.Pix[idx+1])-bgG) <= tol &&
			abs(int(im.Pix[idx+2])-bgB) <= tol
	}

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isBackground((y*w + x) * 4) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return pixel.Region{}, false
	}

	r := pixel.Region{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
	if r.X == 0 && r.Y == 0 && r.Width == w && r.Height == h {
		return pixel.Region{}, false
	}
	return r, true
}

// AutoTrim crops the image to its detected content bounds. When there
// is nothing to trim the input is returned unchanged (as an owned
// copy).
func AutoTrim(im pixel.Image, threshold uint8) pixel.Image {
	bounds, ok := DetectContentBounds(im, threshold)
	if !ok {
		return im.Clone()
	}
	out, err := pixel.Crop(im, bounds)
	if err != nil {
		// Bounds come from a full scan of im, so the crop cannot miss.
		return im.Clone()
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
