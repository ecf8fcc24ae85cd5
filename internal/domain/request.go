// Package domain holds the host-facing request shapes. Hosts speak in
// strings and numbers; the conversion to the pipeline's enums happens
// exactly once, here.
package domain

import (
	"errors"
	"fmt"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/pipeline"
	"github.com/nawwwal/nanopng/internal/pixel"
	"github.com/nawwwal/nanopng/internal/resample"
)

type ResizeRequest struct {
	TargetWidth  int    `json:"target_width"`
	TargetHeight int    `json:"target_height"`
	Kernel       string `json:"kernel,omitempty"`
	FitMode      string `json:"fit_mode,omitempty"`
}

type CropRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TransformRequest is the JSON options document accepted from hosts.
// Absent numeric fields keep the pipeline defaults via pointers.
type TransformRequest struct {
	Format            string         `json:"format,omitempty"`
	Quality           *int           `json:"quality,omitempty"`
	Lossless          bool           `json:"lossless,omitempty"`
	Dithering         float64        `json:"dithering,omitempty"`
	Resize            *ResizeRequest `json:"resize,omitempty"`
	ChromaSubsampling bool           `json:"chroma_subsampling,omitempty"`
	SpeedMode         bool           `json:"speed_mode,omitempty"`
	AvifSpeed         *int           `json:"avif_speed,omitempty"`
	AvifBitDepth      *int           `json:"avif_bit_depth,omitempty"`
	Progressive       *bool          `json:"progressive,omitempty"`
	Rotate            int            `json:"rotate,omitempty"`
	FlipH             bool           `json:"flip_h,omitempty"`
	FlipV             bool           `json:"flip_v,omitempty"`
	AutoTrim          bool           `json:"auto_trim,omitempty"`
	AutoTrimThreshold *int           `json:"auto_trim_threshold,omitempty"`
	Crop              *CropRequest   `json:"crop,omitempty"`
	Sharpen           float64        `json:"sharpen,omitempty"`
}

// Validate rejects structurally broken requests early; range checks on
// individual values are the pipeline's job.
func (r TransformRequest) Validate() error {
	if r.Resize != nil && (r.Resize.TargetWidth <= 0 || r.Resize.TargetHeight <= 0) {
		return fmt.Errorf("resize.target_width and resize.target_height must be positive, got %dx%d",
			r.Resize.TargetWidth, r.Resize.TargetHeight)
	}
	if r.Crop != nil && (r.Crop.Width <= 0 || r.Crop.Height <= 0) {
		return errors.New("crop.width and crop.height must be positive")
	}
	return nil
}

// Options lowers the request onto the fixed-shape pipeline options,
// filling every absent field with its default.
func (r TransformRequest) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Format = codec.ParseFormat(r.Format)
	if r.Quality != nil {
		opts.Quality = *r.Quality
	}
	opts.Lossless = r.Lossless
	opts.Dithering = r.Dithering
	opts.ChromaSubsampling = r.ChromaSubsampling
	opts.SpeedMode = r.SpeedMode
	if r.AvifSpeed != nil {
		opts.AvifSpeed = *r.AvifSpeed
	}
	if r.AvifBitDepth != nil {
		opts.AvifBitDepth = *r.AvifBitDepth
	}
	if r.Progressive != nil {
		opts.Progressive = *r.Progressive
	}
	opts.Rotate = r.Rotate
	opts.FlipH = r.FlipH
	opts.FlipV = r.FlipV
	opts.AutoTrim = r.AutoTrim
	if r.AutoTrimThreshold != nil {
		opts.AutoTrimThreshold = *r.AutoTrimThreshold
	}
	opts.Sharpen = r.Sharpen

	if r.Resize != nil {
		opts.Resize = &pipeline.ResizeOptions{
			Width:  r.Resize.TargetWidth,
			Height: r.Resize.TargetHeight,
			Kernel: resample.ParseKernel(r.Resize.Kernel),
			Fit:    resample.ParseFitMode(r.Resize.FitMode),
		}
	}
	if r.Crop != nil {
		opts.Crop = &pixel.Region{X: r.Crop.X, Y: r.Crop.Y, Width: r.Crop.Width, Height: r.Crop.Height}
	}
	return opts
}
