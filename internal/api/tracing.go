package api

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nawwwal/nanopng/internal/codec"
)

func (s *Server) withTracing(next http.Handler) http.Handler {
	if s.tracer == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeLabel(r.URL.Path)
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+route, trace.WithSpanKind(trace.SpanKindServer))
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.target", r.URL.Path),
			attribute.Int64("http.request_content_length", r.ContentLength),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// annotateTransformSpan records the transform outcome on the request's
// span. With tracing disabled the span is a no-op and nothing is
// recorded.
func annotateTransformSpan(ctx context.Context, requestID string, format codec.Format, width, height int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("nanopng.request_id", requestID),
		attribute.String("nanopng.output_format", format.String()),
		attribute.Int("nanopng.output_width", width),
		attribute.Int("nanopng.output_height", height),
	)
}
