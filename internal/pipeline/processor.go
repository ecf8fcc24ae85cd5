// Package pipeline composes the editing stages into one fixed-order
// transformation and dispatches the result to the codec boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/filter"
	"github.com/nawwwal/nanopng/internal/pixel"
	"github.com/nawwwal/nanopng/internal/resample"
	"github.com/nawwwal/nanopng/internal/transform"
)

// Run applies the editing stages to an owned RGBA8 image in fixed,
// non-reconfigurable order:
//
//	auto-trim -> user crop -> resize (+ fit crop) -> rotate/flip -> sharpen
//
// Trim and crop run before resize because their coordinates are defined
// in the pre-resize space; rotate and flip run after resize because
// their cost does not depend on dimensions; sharpen runs last so it
// only touches pixels that will be encoded. The first stage error
// aborts the run; no partial output is ever returned.
func Run(im pixel.Image, opts Options) (pixel.Image, error) {
	if err := opts.Validate(); err != nil {
		return pixel.Image{}, err
	}
	if im.Empty() || len(im.Pix) != im.Width*im.Height*4 {
		return pixel.Image{}, fmt.Errorf("%w: %dx%d with %d-byte buffer",
			pixel.ErrInvalidDimension, im.Width, im.Height, len(im.Pix))
	}

	out := im

	if opts.AutoTrim {
		out = filter.AutoTrim(out, uint8(opts.AutoTrimThreshold))
	}

	if opts.Crop != nil {
		cropped, err := pixel.Crop(out, *opts.Crop)
		if err != nil {
			return pixel.Image{}, fmt.Errorf("crop stage: %w", err)
		}
		out = cropped
	}

	if opts.Resize != nil {
		scaledW, scaledH, fitCrop := resample.CalculateFit(
			out.Width, out.Height, opts.Resize.Width, opts.Resize.Height, opts.Resize.Fit)

		resized, err := resample.Resample(out, scaledW, scaledH, opts.Resize.Kernel)
		if err != nil {
			return pixel.Image{}, fmt.Errorf("resize stage: %w", err)
		}
		out = resized

		if fitCrop != nil {
			cropped, err := pixel.Crop(out, *fitCrop)
			if err != nil {
				return pixel.Image{}, fmt.Errorf("resize stage: fit crop: %w", err)
			}
			out = cropped
		}
	}

	out = transform.Apply(out, opts.Rotate, opts.FlipH, opts.FlipV)

	if opts.Sharpen > 0 {
		out = filter.Sharpen(out, opts.Sharpen)
	}

	return out, nil
}

// The Processor below wires Run between a source fetcher and an output
// emitter so hosts (the CLI, tests) can run file-in/file-out jobs.

const SourceTypeLocalFile = "local_file"

var ErrUnsupportedSourceType = errors.New("unsupported source_type")

type Request struct {
	JobID      string
	SourceType string
	ObjectKey  string
	Options    Options
}

type Output struct {
	Format codec.Format
	Path   string
	Bytes  int
	Width  int
	Height int
}

type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

type Emitter interface {
	Emit(ctx context.Context, req Request, data []byte, format codec.Format, width, height int) (Output, error)
}

type Processor struct {
	fetcher Fetcher
	emitter Emitter
}

func NewLocalProcessor(outputDir string) *Processor {
	return &Processor{
		fetcher: LocalFileFetcher{},
		emitter: LocalFileEmitter{OutputDir: outputDir},
	}
}

// Process fetches the source, decodes it, runs the pipeline, encodes
// the result and emits it. Stage errors are wrapped with the stage
// name and returned to the caller untouched otherwise.
func (p *Processor) Process(ctx context.Context, req Request) (Output, error) {
	if strings.TrimSpace(req.JobID) == "" {
		return Output{}, errors.New("job_id is required")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	sourceBytes, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		return Output{}, fmt.Errorf("fetch stage: %w", err)
	}

	img, _, err := codec.Decode(sourceBytes)
	if err != nil {
		return Output{}, fmt.Errorf("decode stage: %w", err)
	}

	out, err := Run(img, req.Options)
	if err != nil {
		return Output{}, err
	}

	data, err := codec.Encode(out, req.Options.Format, req.Options.EncodeOptions())
	if err != nil {
		return Output{}, fmt.Errorf("encode stage: %w", err)
	}

	written, err := p.emitter.Emit(ctx, req, data, req.Options.Format, out.Width, out.Height)
	if err != nil {
		return Output{}, fmt.Errorf("emit stage: %w", err)
	}
	return written, nil
}

type LocalFileFetcher struct{}

func (LocalFileFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if !strings.EqualFold(req.SourceType, SourceTypeLocalFile) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", req.ObjectKey, err)
	}
	return data, nil
}

type LocalFileEmitter struct {
	OutputDir string
}

func (e LocalFileEmitter) Emit(_ context.Context, req Request, data []byte, format codec.Format, width, height int) (Output, error) {
	if strings.TrimSpace(e.OutputDir) == "" {
		return Output{}, errors.New("output directory is required")
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", sanitizePathToken(req.JobID), format)
	fullPath := filepath.Join(e.OutputDir, filename)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return Output{}, fmt.Errorf("write output file: %w", err)
	}

	return Output{
		Format: format,
		Path:   fullPath,
		Bytes:  len(data),
		Width:  width,
		Height: height,
	}, nil
}

func sanitizePathToken(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
