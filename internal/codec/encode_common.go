package codec

import (
	"bytes"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/tiff"

	"github.com/nawwwal/nanopng/internal/pixel"
)

// Pure-Go encode paths shared by both backends. The govips backend
// only falls through to these for formats libvips is not wired up for.

func encodePNG(im pixel.Image, opts EncodeOptions) ([]byte, error) {
	level := png.BestCompression
	if opts.SpeedMode {
		level = png.BestSpeed
	}
	encoder := png.Encoder{CompressionLevel: level}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, toStdImage(im)); err != nil {
		return nil, fmt.Errorf("%w: png: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(im pixel.Image, opts EncodeOptions) ([]byte, error) {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toStdImage(im), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: jpeg: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

func encodeWebP(im pixel.Image, opts EncodeOptions) ([]byte, error) {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	err := webp.Encode(&buf, toStdImage(im), &webp.Options{
		Lossless: opts.Lossless,
		Quality:  float32(quality),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: webp: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

func encodeGIF(im pixel.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, toStdImage(im), &gif.Options{NumColors: 256}); err != nil {
		return nil, fmt.Errorf("%w: gif: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

func encodeTIFF(im pixel.Image, opts EncodeOptions) ([]byte, error) {
	compression := tiff.Deflate
	if opts.SpeedMode {
		compression = tiff.Uncompressed
	}

	var buf bytes.Buffer
	err := tiff.Encode(&buf, toStdImage(im), &tiff.Options{Compression: compression})
	if err != nil {
		return nil, fmt.Errorf("%w: tiff: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}
