package pipeline

import (
	"errors"
	"fmt"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/pixel"
	"github.com/nawwwal/nanopng/internal/resample"
)

var ErrInvalidConfig = errors.New("pipeline: invalid option")

// ResizeOptions describes an optional resize stage.
type ResizeOptions struct {
	Width  int
	Height int
	Kernel resample.Kernel
	Fit    resample.FitMode
}

// Options is the full per-invocation configuration. It is a fixed-shape
// value: every field has a concrete default assigned by
// DefaultOptions, and the orchestrator never special-cases an absent
// field. Options are immutable once handed to Run.
type Options struct {
	Format            codec.Format
	Quality           int     // 0-100
	Lossless          bool
	Dithering         float64 // 0.0-1.0
	Resize            *ResizeOptions
	ChromaSubsampling bool
	SpeedMode         bool
	AvifSpeed         int  // 0-10
	AvifBitDepth      int  // 8 or 10
	Progressive       bool

	Rotate int // one of 0, 90, 180, 270
	FlipH  bool
	FlipV  bool

	AutoTrim          bool
	AutoTrimThreshold int // 0-255
	Crop              *pixel.Region
	Sharpen           float64 // 0.0-1.0
}

// DefaultOptions returns the documented defaults: PNG output, quality
// 80, Lanczos3 / contain resize behavior, progressive encoding on,
// auto-trim threshold 25, no geometric changes.
func DefaultOptions() Options {
	return Options{
		Format:            codec.FormatPNG,
		Quality:           80,
		AvifSpeed:         6,
		AvifBitDepth:      8,
		Progressive:       true,
		AutoTrimThreshold: 25,
	}
}

// Validate checks every field against its documented range. The first
// out-of-range value fails with ErrInvalidConfig.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d outside 0-100", ErrInvalidConfig, o.Quality)
	}
	if o.Dithering < 0 || o.Dithering > 1 {
		return fmt.Errorf("%w: dithering %g outside 0.0-1.0", ErrInvalidConfig, o.Dithering)
	}
	if o.Sharpen < 0 || o.Sharpen > 1 {
		return fmt.Errorf("%w: sharpen %g outside 0.0-1.0", ErrInvalidConfig, o.Sharpen)
	}
	switch o.Rotate {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: rotate %d not one of 0, 90, 180, 270", ErrInvalidConfig, o.Rotate)
	}
	if o.AvifSpeed < 0 || o.AvifSpeed > 10 {
		return fmt.Errorf("%w: avif speed %d outside 0-10", ErrInvalidConfig, o.AvifSpeed)
	}
	if o.AvifBitDepth != 8 && o.AvifBitDepth != 10 {
		return fmt.Errorf("%w: avif bit depth %d not 8 or 10", ErrInvalidConfig, o.AvifBitDepth)
	}
	if o.AutoTrimThreshold < 0 || o.AutoTrimThreshold > 255 {
		return fmt.Errorf("%w: auto-trim threshold %d outside 0-255", ErrInvalidConfig, o.AutoTrimThreshold)
	}
	if o.Resize != nil && (o.Resize.Width <= 0 || o.Resize.Height <= 0) {
		return fmt.Errorf("%w: resize target %dx%d must be positive", ErrInvalidConfig, o.Resize.Width, o.Resize.Height)
	}
	if o.Crop != nil && (o.Crop.Width <= 0 || o.Crop.Height <= 0 || o.Crop.X < 0 || o.Crop.Y < 0) {
		return fmt.Errorf("%w: crop region %+v", ErrInvalidConfig, *o.Crop)
	}
	return nil
}

// EncodeOptions projects the per-format knobs for the codec boundary.
func (o Options) EncodeOptions() codec.EncodeOptions {
	return codec.EncodeOptions{
		Quality:           o.Quality,
		Lossless:          o.Lossless,
		Dithering:         o.Dithering,
		ChromaSubsampling: o.ChromaSubsampling,
		SpeedMode:         o.SpeedMode,
		Progressive:       o.Progressive,
		AvifSpeed:         o.AvifSpeed,
		AvifBitDepth:      o.AvifBitDepth,
	}
}
