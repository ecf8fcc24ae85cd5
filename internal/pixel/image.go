// Package pixel defines the canonical pixel buffer passed between
// pipeline stages: row-major, top-to-bottom, non-premultiplied RGBA8.
package pixel

import (
	"errors"
	"fmt"
)

var ErrInvalidDimension = errors.New("invalid image dimension")

// Image owns its buffer. Stages never alias an Image they returned;
// every operation allocates a fresh output.
type Image struct {
	Pix    []byte
	Width  int
	Height int
}

// New allocates a zeroed image. Width and height must be positive and
// the pixel count must not overflow the buffer length.
func New(width, height int) (Image, error) {
	if width <= 0 || height <= 0 {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	size := width * height * 4
	if size/4/height != width {
		return Image{}, fmt.Errorf("%w: %dx%d overflows buffer size", ErrInvalidDimension, width, height)
	}
	return Image{Pix: make([]byte, size), Width: width, Height: height}, nil
}

// FromPix wraps an existing RGBA8 buffer. The buffer length must be
// exactly width*height*4.
func FromPix(pix []byte, width, height int) (Image, error) {
	if width <= 0 || height <= 0 {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if len(pix) != width*height*4 {
		return Image{}, fmt.Errorf("%w: buffer length %d does not match %dx%d RGBA", ErrInvalidDimension, len(pix), width, height)
	}
	return Image{Pix: pix, Width: width, Height: height}, nil
}

// Clone returns a deep copy.
func (im Image) Clone() Image {
	pix := make([]byte, len(im.Pix))
	copy(pix, im.Pix)
	return Image{Pix: pix, Width: im.Width, Height: im.Height}
}

// Empty reports whether the image has zero area.
func (im Image) Empty() bool {
	return im.Width <= 0 || im.Height <= 0
}

// Region is a crop rectangle in pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Crop copies the region out of im into a new image. The region must
// lie entirely inside the source.
func Crop(im Image, r Region) (Image, error) {
	if im.Empty() {
		return Image{}, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimension, im.Width, im.Height)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Image{}, fmt.Errorf("%w: crop region is %dx%d", ErrInvalidDimension, r.Width, r.Height)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > im.Width || r.Y+r.Height > im.Height {
		return Image{}, fmt.Errorf("%w: crop %d,%d %dx%d exceeds source %dx%d",
			ErrInvalidDimension, r.X, r.Y, r.Width, r.Height, im.Width, im.Height)
	}

	out, err := New(r.Width, r.Height)
	if err != nil {
		return Image{}, err
	}
	rowBytes := r.Width * 4
	for y := 0; y < r.Height; y++ {
		src := ((r.Y+y)*im.Width + r.X) * 4
		dst := y * rowBytes
		copy(out.Pix[dst:dst+rowBytes], im.Pix[src:src+rowBytes])
	}
	return out, nil
}
