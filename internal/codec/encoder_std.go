//go:build !govips || !cgo

package codec

import (
	"fmt"

	"github.com/nawwwal/nanopng/internal/pixel"
)

// Default backend: stdlib PNG/JPEG/GIF, x/image TIFF, libwebp via
// chai2010/webp. Lossy palette PNG, progressive JPEG and AVIF need
// libvips; those options are either ignored or rejected here.
func encode(im pixel.Image, format Format, opts EncodeOptions) ([]byte, error) {
	switch format {
	case FormatPNG:
		return encodePNG(im, opts)
	case FormatJPEG:
		return encodeJPEG(im, opts)
	case FormatWebP:
		return encodeWebP(im, opts)
	case FormatGIF:
		return encodeGIF(im)
	case FormatTIFF:
		return encodeTIFF(im, opts)
	case FormatAVIF:
		return nil, fmt.Errorf("%w: avif export requires the govips build tag", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
