// Package codec is the boundary to the external format encoders and
// decoders. The pipeline core treats every format as a black box behind
// encode(pixels, width, height, options) and decode(bytes); the actual
// bitstream work is delegated to mature codec implementations. Two
// backends exist: the default pure-Go one and a libvips one behind the
// govips build tag, mirroring how quality-critical formats (lossy PNG,
// progressive JPEG, AVIF) need a native codec.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/nawwwal/nanopng/internal/bmp"
	"github.com/nawwwal/nanopng/internal/pixel"
)

var (
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
	ErrEncodeFailure     = errors.New("codec: encode failed")
	ErrDecodeFailure     = errors.New("codec: decode failed")
)

// Format is the target encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatWebP
	FormatAVIF
	FormatGIF
	FormatTIFF
	FormatBMP // decode only
)

// ParseFormat maps a host-supplied name to a Format. Unrecognized
// names resolve to FormatPNG.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg":
		return FormatJPEG
	case "webp":
		return FormatWebP
	case "avif":
		return FormatAVIF
	case "gif":
		return FormatGIF
	case "tiff":
		return FormatTIFF
	case "bmp":
		return FormatBMP
	default:
		return FormatPNG
	}
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	case FormatAVIF:
		return "avif"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return "png"
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatAVIF:
		return "image/avif"
	case FormatGIF:
		return "image/gif"
	case FormatTIFF:
		return "image/tiff"
	case FormatBMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

// EncodeOptions carries every per-format knob. Fields a backend cannot
// honor are ignored there; see the backend files for what each one
// supports.
type EncodeOptions struct {
	Quality           int     // 0-100, 0 means backend default
	Lossless          bool    // force lossless where the format allows it
	Dithering         float64 // 0.0-1.0, palette formats only
	ChromaSubsampling bool    // true = 4:2:0, false = 4:4:4 (jpeg)
	SpeedMode         bool    // trade compression for speed
	Progressive       bool    // progressive/interlaced output (jpeg, png)
	AvifSpeed         int     // 0-10
	AvifBitDepth      int     // 8 or 10
}

// Encode serializes the image in the given format. A panic inside a
// codec is caught and surfaced as ErrEncodeFailure so a misbehaving
// encoder cannot take the pipeline down with it.
func Encode(im pixel.Image, format Format, opts EncodeOptions) (data []byte, err error) {
	if im.Empty() || len(im.Pix) != im.Width*im.Height*4 {
		return nil, fmt.Errorf("%w: buffer length %d for %dx%d RGBA",
			pixel.ErrInvalidDimension, len(im.Pix), im.Width, im.Height)
	}

	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: encoder panic: %v", ErrEncodeFailure, r)
		}
	}()

	return encode(im, format, opts)
}

// Decode sniffs the container and returns a top-down RGBA8 image. BMP
// goes through the in-house decoder; PNG, JPEG, GIF, WEBP and TIFF go
// through their registered decoders.
func Decode(data []byte) (pixel.Image, Format, error) {
	if bmp.Is(data) {
		im, err := bmp.Decode(data)
		return im, FormatBMP, err
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pixel.Image{}, 0, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return fromStdImage(img), ParseFormat(name), nil
}

// Dimensions returns the pixel dimensions of an encoded image. The
// registered formats read only the header; BMP runs through the
// in-house decoder.
func Dimensions(data []byte) (int, int, error) {
	if bmp.Is(data) {
		im, err := bmp.Decode(data)
		if err != nil {
			return 0, 0, err
		}
		return im.Width, im.Height, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return cfg.Width, cfg.Height, nil
}

// fromStdImage flattens any image.Image into non-premultiplied RGBA8.
func fromStdImage(img image.Image) pixel.Image {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return pixel.Image{Pix: dst.Pix, Width: dst.Rect.Dx(), Height: dst.Rect.Dy()}
}

// toStdImage wraps the pixel buffer as a stdlib image without copying.
func toStdImage(im pixel.Image) *image.NRGBA {
	return &image.NRGBA{
		Pix:    im.Pix,
		Stride: im.Width * 4,
		Rect:   image.Rect(0, 0, im.Width, im.Height),
	}
}
