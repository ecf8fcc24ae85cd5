package pipeline

import (
	"context"
	"testing"

	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/pixel"
	"github.com/nawwwal/nanopng/internal/resample"
)

func BenchmarkRunResizeLanczos3(b *testing.B) {
	source := benchmarkImage(b, 1920, 1080)
	opts := DefaultOptions()
	opts.Resize = &ResizeOptions{Width: 640, Height: 640, Fit: resample.FitContain}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(source, opts); err != nil {
			b.Fatalf("run: %v", err)
		}
	}
}

func BenchmarkRunSharpen(b *testing.B) {
	source := benchmarkImage(b, 1280, 720)
	opts := DefaultOptions()
	opts.Sharpen = 0.6

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(source, opts); err != nil {
			b.Fatalf("run: %v", err)
		}
	}
}

func BenchmarkProcessorResizeJPEG(b *testing.B) {
	source := benchmarkImage(b, 1920, 1080)
	encoded, err := codec.Encode(source, codec.FormatPNG, codec.EncodeOptions{Lossless: true})
	if err != nil {
		b.Fatalf("encode source: %v", err)
	}

	opts := DefaultOptions()
	opts.Format = codec.FormatJPEG
	opts.Quality = 82
	opts.Resize = &ResizeOptions{Width: 640, Height: 640, Fit: resample.FitContain}

	processor := &Processor{
		fetcher: staticFetcher{data: encoded},
		emitter: discardEmitter{},
	}
	req := Request{
		JobID:      "bench",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  "ignored.png",
		Options:    opts,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := processor.Process(context.Background(), req); err != nil {
			b.Fatalf("process: %v", err)
		}
	}
}

type staticFetcher struct {
	data []byte
}

func (f staticFetcher) Fetch(_ context.Context, _ Request) ([]byte, error) {
	return f.data, nil
}

type discardEmitter struct{}

func (discardEmitter) Emit(_ context.Context, _ Request, data []byte, format codec.Format, width, height int) (Output, error) {
	return Output{
		Format: format,
		Bytes:  len(data),
		Width:  width,
		Height: height,
	}, nil
}

func benchmarkImage(b *testing.B, w, h int) pixel.Image {
	b.Helper()

	im, err := pixel.New(w, h)
	if err != nil {
		b.Fatalf("new %dx%d image: %v", w, h, err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := (y*w + x) * 4
			im.Pix[idx] = byte((x * 255) / w)
			im.Pix[idx+1] = byte((y * 255) / h)
			im.Pix[idx+2] = 140
			im.Pix[idx+3] = 255
		}
	}
	return im
}
