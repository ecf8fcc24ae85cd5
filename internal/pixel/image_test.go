package pixel

import (
	"bytes"
	"errors"
	"testing"
)

func TestFromPixLengthMismatch(t *testing.T) {
	if _, err := FromPix(make([]byte, 10), 2, 2); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := FromPix(make([]byte, 16), 2, 2); err != nil {
		t.Fatalf("expected valid 2x2 image, got %v", err)
	}
}

func TestNewRejectsZeroArea(t *testing.T) {
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 4}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("expected ErrInvalidDimension for %dx%d, got %v", dims[0], dims[1], err)
		}
	}
}

func TestCrop(t *testing.T) {
	src, err := New(4, 4)
	if err != nil {
		t.Fatalf("new image: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			idx := (y*4 + x) * 4
			src.Pix[idx] = byte(x)
			src.Pix[idx+1] = byte(y)
			src.Pix[idx+3] = 255
		}
	}

	out, err := Crop(src, Region{X: 1, Y: 2, Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("expected 2x2 crop, got %dx%d", out.Width, out.Height)
	}
	if out.Pix[0] != 1 || out.Pix[1] != 2 {
		t.Fatalf("expected top-left pixel from (1,2), got x=%d y=%d", out.Pix[0], out.Pix[1])
	}
}

func TestCropOutOfBounds(t *testing.T) {
	src, _ := New(4, 4)
	if _, err := Crop(src, Region{X: 2, Y: 0, Width: 3, Height: 2}); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := Crop(src, Region{X: 0, Y: 0, Width: 0, Height: 2}); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension for zero-width region, got %v", err)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	src, _ := New(2, 2)
	src.Pix[0] = 42

	dup := src.Clone()
	dup.Pix[0] = 7
	if src.Pix[0] != 42 {
		t.Fatal("clone aliases the source buffer")
	}
	dup.Pix[0] = 42
	if !bytes.Equal(src.Pix, dup.Pix) {
		t.Fatal("clone differs from source")
	}
}
