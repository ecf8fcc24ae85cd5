package pipeline

import (
	"errors"
	"testing"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/pixel"
)

func TestDefaultOptionsAreValid(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}
	if opts.Format != codec.FormatPNG {
		t.Fatalf("default format = %s, want png", opts.Format)
	}
	if opts.AvifSpeed != 6 || opts.AvifBitDepth != 8 {
		t.Fatalf("avif defaults = speed %d depth %d, want 6/8", opts.AvifSpeed, opts.AvifBitDepth)
	}
	if !opts.Progressive {
		t.Fatal("progressive must default to true")
	}
	if opts.AutoTrimThreshold != 25 {
		t.Fatalf("auto-trim threshold default = %d, want 25", opts.AutoTrimThreshold)
	}
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"quality", func(o *Options) { o.Quality = 101 }},
		{"dithering", func(o *Options) { o.Dithering = 1.5 }},
		{"sharpen", func(o *Options) { o.Sharpen = -0.1 }},
		{"rotate", func(o *Options) { o.Rotate = 45 }},
		{"avif speed", func(o *Options) { o.AvifSpeed = 11 }},
		{"avif bit depth", func(o *Options) { o.AvifBitDepth = 12 }},
		{"trim threshold", func(o *Options) { o.AutoTrimThreshold = 256 }},
		{"resize target", func(o *Options) { o.Resize = &ResizeOptions{Width: 0, Height: 10} }},
		{"crop region", func(o *Options) { o.Crop = &pixel.Region{X: -1, Width: 4, Height: 4} }},
	}
	for _, c := range cases {
		opts := DefaultOptions()
		c.mutate(&opts)
		if err := opts.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", c.name, err)
		}
	}
}
