// Package bmp decodes uncompressed BMP containers into the canonical
// RGBA8 pixel buffer. Only the parts of the format the pipeline needs
// are handled: 24-bit BGR and 32-bit BGRA, compression methods 0 (RGB)
// and 3 (bitfields), bottom-up or top-down row order.
package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nawwwal/nanopng/internal/pixel"
)

var (
	ErrTooSmall               = errors.New("bmp: file too small")
	ErrInvalidFormat          = errors.New("bmp: not a BMP file")
	ErrUnsupportedCompression = errors.New("bmp: unsupported compression")
	ErrUnsupportedBitDepth    = errors.New("bmp: unsupported bit depth")
	ErrTruncated              = errors.New("bmp: pixel data truncated")
)

// headerSize is the file header (14 bytes) plus the smallest info
// header (BITMAPINFOHEADER, 40 bytes).
const headerSize = 54

// Is reports whether data starts with the BMP magic bytes.
func Is(data []byte) bool {
	return len(data) >= 2 && data[0] == 'B' && data[1] == 'M'
}

// Decode parses a BMP container into a top-down RGBA8 image. Every
// pixel read is bounds-checked against the input, so truncated files
// fail with ErrTruncated instead of reading out of range.
func Decode(data []byte) (pixel.Image, error) {
	if len(data) < headerSize {
		return pixel.Image{}, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	if !Is(data) {
		return pixel.Image{}, ErrInvalidFormat
	}

	dataOffset := int(binary.LittleEndian.Uint32(data[10:14]))
	rawWidth := int32(binary.LittleEndian.Uint32(data[18:22]))
	rawHeight := int32(binary.LittleEndian.Uint32(data[22:26]))
	bitsPerPixel := int(binary.LittleEndian.Uint16(data[28:30]))
	compression := binary.LittleEndian.Uint32(data[30:34])

	// 0 = BI_RGB, 3 = BI_BITFIELDS. Bitfields with the standard channel
	// masks lay out pixels identically to BI_RGB at 24/32 bpp;
	// everything else is rejected rather than guessing channel order.
	if compression != 0 && compression != 3 {
		return pixel.Image{}, fmt.Errorf("%w: method %d", ErrUnsupportedCompression, compression)
	}
	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return pixel.Image{}, fmt.Errorf("%w: %d bpp", ErrUnsupportedBitDepth, bitsPerPixel)
	}

	width := int(abs32(rawWidth))
	height := int(abs32(rawHeight))
	// A negative stored height means rows are already top-down instead
	// of the BMP-standard bottom-up order.
	topDown := rawHeight < 0

	if width == 0 || height == 0 {
		return pixel.Image{}, fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimension, width, height)
	}
	out, err := pixel.New(width, height)
	if err != nil {
		return pixel.Image{}, err
	}

	bytesPerPixel := bitsPerPixel / 8
	// Rows are padded to a 4-byte boundary.
	stride := (width*bytesPerPixel + 3) / 4 * 4

	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		if topDown {
			srcY = y
		}
		rowStart := dataOffset + srcY*stride

		for x := 0; x < width; x++ {
			src := rowStart + x*bytesPerPixel
			if src < 0 || src+bytesPerPixel > len(data) {
				return pixel.Image{}, fmt.Errorf("%w: pixel (%d,%d) at offset %d", ErrTruncated, x, y, src)
			}

			dst := (y*width + x) * 4
			out.Pix[dst] = data[src+2]
			out.Pix[dst+1] = data[src+1]
			out.Pix[dst+2] = data[src]
			if bytesPerPixel == 4 {
				out.Pix[dst+3] = data[src+3]
			} else {
				out.Pix[dst+3] = 255
			}
		}
	}

	return out, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
