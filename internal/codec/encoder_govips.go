//go:build govips && cgo

package codec

import (
	"fmt"

	"github.com/davidbyttow/govips/v2/vips"

	"github.com/nawwwal/nanopng/internal/pixel"
)

// libvips backend: PNG (palette, dither, quality), JPEG (progressive,
// chroma subsampling), WEBP and AVIF (speed, bit depth) exports from
// raw RGBA memory. GIF and TIFF fall through to the pure-Go paths.
func encode(im pixel.Image, format Format, opts EncodeOptions) ([]byte, error) {
	switch format {
	case FormatPNG, FormatJPEG, FormatWebP, FormatAVIF:
		return exportVips(im, format, opts)
	case FormatGIF:
		return encodeGIF(im)
	case FormatTIFF:
		return encodeTIFF(im, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func exportVips(im pixel.Image, format Format, opts EncodeOptions) ([]byte, error) {
	img, err := vips.NewImageFromMemory(im.Pix, im.Width, im.Height, 4)
	if err != nil {
		return nil, fmt.Errorf("%w: wrap rgba buffer: %v", ErrEncodeFailure, err)
	}
	defer img.Close()

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var data []byte
	switch format {
	case FormatPNG:
		params := vips.NewPngExportParams()
		params.Quality = quality
		if !opts.Lossless {
			params.Palette = true
			params.Dither = opts.Dithering
		}
		params.Interlace = opts.Progressive
		if opts.SpeedMode {
			params.Compression = 1
		}
		data, _, err = img.ExportPng(params)
	case FormatJPEG:
		params := vips.NewJpegExportParams()
		params.Quality = quality
		params.Interlace = opts.Progressive
		if opts.ChromaSubsampling {
			params.SubsampleMode = vips.VipsForeignSubsampleOn
		} else {
			params.SubsampleMode = vips.VipsForeignSubsampleOff
		}
		data, _, err = img.ExportJpeg(params)
	case FormatWebP:
		params := vips.NewWebpExportParams()
		params.Quality = quality
		params.Lossless = opts.Lossless
		data, _, err = img.ExportWebp(params)
	case FormatAVIF:
		params := vips.NewAvifExportParams()
		params.Quality = quality
		params.Lossless = opts.Lossless
		params.Speed = avifSpeed(opts.AvifSpeed)
		params.Bitdepth = avifBitDepth(opts.AvifBitDepth)
		data, _, err = img.ExportAvif(params)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncodeFailure, format, err)
	}
	return data, nil
}

func avifSpeed(speed int) int {
	if speed < 0 || speed > 10 {
		return 6
	}
	return speed
}

func avifBitDepth(depth int) int {
	if depth != 10 {
		return 8
	}
	return depth
}
