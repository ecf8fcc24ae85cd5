package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/config"
	"github.com/nawwwal/nanopng/internal/id"
	"github.com/nawwwal/nanopng/internal/pipeline"
	"github.com/nawwwal/nanopng/internal/resample"
)

func main() {
	logger := log.New(os.Stderr, "[nanopng] ", log.LstdFlags|log.Lmsgprefix)
	cfg := config.Load()

	var (
		outputDir     = flag.String("out", cfg.Output.Dir, "output directory")
		format        = flag.String("format", "png", "output format: png, jpeg, webp, avif, gif or tiff")
		quality       = flag.Int("quality", 80, "quality 0-100 for lossy formats")
		lossless      = flag.Bool("lossless", false, "prefer lossless encoding where the format supports it")
		width         = flag.Int("width", 0, "target width, 0 to derive from the aspect ratio")
		height        = flag.Int("height", 0, "target height, 0 to derive from the aspect ratio")
		fit           = flag.String("fit", "contain", "resize fit: fill, cover, contain or outside")
		kernel        = flag.String("kernel", "lanczos3", "resampling kernel: nearest, bilinear, catmullrom, mitchell or lanczos3")
		rotate        = flag.Int("rotate", 0, "clockwise rotation: 0, 90, 180 or 270")
		flipH         = flag.Bool("fliph", false, "mirror horizontally")
		flipV         = flag.Bool("flipv", false, "mirror vertically")
		autoTrim      = flag.Bool("autotrim", false, "trim uniform border before other stages")
		trimThreshold = flag.Int("trim-threshold", 25, "per-channel tolerance for auto-trim, 0-255")
		sharpen       = flag.Float64("sharpen", 0, "sharpen amount 0-1")
	)
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: nanopng [flags] <input-file> [input-file...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := codec.Startup(); err != nil {
		logger.Fatalf("codec startup failed: %v", err)
	}
	defer codec.Shutdown()

	baseOpts := pipeline.DefaultOptions()
	baseOpts.Format = codec.ParseFormat(*format)
	baseOpts.Quality = *quality
	baseOpts.Lossless = *lossless
	baseOpts.Rotate = *rotate
	baseOpts.FlipH = *flipH
	baseOpts.FlipV = *flipV
	baseOpts.AutoTrim = *autoTrim
	baseOpts.AutoTrimThreshold = *trimThreshold
	baseOpts.Sharpen = *sharpen

	processor := pipeline.NewLocalProcessor(*outputDir)
	ctx := context.Background()

	failed := 0
	for _, input := range inputs {
		opts := baseOpts
		if *width > 0 || *height > 0 {
			w, h, err := resolveTarget(input, *width, *height)
			if err != nil {
				logger.Printf("%s: %v", input, err)
				failed++
				continue
			}
			opts.Resize = &pipeline.ResizeOptions{
				Width:  w,
				Height: h,
				Kernel: resample.ParseKernel(*kernel),
				Fit:    resample.ParseFitMode(*fit),
			}
		}

		out, err := processor.Process(ctx, pipeline.Request{
			JobID:      jobIDFor(input),
			SourceType: pipeline.SourceTypeLocalFile,
			ObjectKey:  input,
			Options:    opts,
		})
		if err != nil {
			logger.Printf("%s: %v", input, err)
			failed++
			continue
		}
		logger.Printf("%s -> %s (%dx%d, %d bytes)", input, out.Path, out.Width, out.Height, out.Bytes)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// resolveTarget fills whichever of width/height was left at zero from
// the source's aspect ratio, reading only the image header.
func resolveTarget(input string, width, height int) (int, int, error) {
	if width > 0 && height > 0 {
		return width, height, nil
	}
	if width <= 0 && height <= 0 {
		return 0, 0, errors.New("resize requires -width or -height")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return 0, 0, fmt.Errorf("read input file %s: %w", input, err)
	}
	srcW, srcH, err := codec.Dimensions(data)
	if err != nil {
		return 0, 0, err
	}

	if width <= 0 {
		width = max(1, int(math.Round(float64(height)*float64(srcW)/float64(srcH))))
	} else {
		height = max(1, int(math.Round(float64(width)*float64(srcH)/float64(srcW))))
	}
	return width, height, nil
}

func jobIDFor(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" {
		return id.New()
	}
	return base + "-" + id.New()[:8]
}
