// Package api exposes the transformation pipeline as a synchronous
// HTTP service: one request in, one encoded image out, no job state.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/nawwwal/nanopng/internal/bmp"
	"github.com/nawwwal/nanopng/internal/codec"
	"github.com/nawwwal/nanopng/internal/domain"
	"github.com/nawwwal/nanopng/internal/id"
	"github.com/nawwwal/nanopng/internal/pipeline"
	"github.com/nawwwal/nanopng/internal/pixel"
)

const defaultMaxBodyBytes = 64 << 20

type Options struct {
	MaxBodyBytes          int64
	RateLimiter           RateLimiter
	RateLimitUserIDHeader string
	Tracer                trace.Tracer
}

type Server struct {
	logger                *log.Logger
	metrics               *metrics
	tracer                trace.Tracer
	rateLimiter           RateLimiter
	rateLimitUserIDHeader string
	maxBodyBytes          int64
	mux                   *http.ServeMux
}

func NewServer(logger *log.Logger, opts Options) *Server {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	userIDHeader := strings.TrimSpace(opts.RateLimitUserIDHeader)
	if userIDHeader == "" {
		userIDHeader = "X-User-ID"
	}

	s := &Server{
		logger:                logger,
		metrics:               newMetrics(),
		tracer:                opts.Tracer,
		rateLimiter:           opts.RateLimiter,
		rateLimitUserIDHeader: userIDHeader,
		maxBodyBytes:          maxBody,
		mux:                   http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.withTracing(s.withHTTPMetrics(s.withRateLimit(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", s.metrics.metricsHandler())
	s.mux.HandleFunc("POST /v1/transform", s.handleTransform)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTransform accepts either a multipart form with an "image" file
// and an optional "options" JSON part, or a raw image body. The
// response body is the encoded result.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	requestID := id.New()
	start := time.Now()

	source, req, err := s.readTransformRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "request_id": requestID})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "request_id": requestID})
		return
	}
	opts := req.Options()

	img, srcFormat, err := codec.Decode(source)
	if err != nil {
		s.metrics.transformsTotal.WithLabelValues(opts.Format.String(), "decode_error").Inc()
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error(), "request_id": requestID})
		return
	}

	out, err := pipeline.Run(img, opts)
	if err != nil {
		s.metrics.transformsTotal.WithLabelValues(opts.Format.String(), "pipeline_error").Inc()
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error(), "request_id": requestID})
		return
	}

	data, err := codec.Encode(out, opts.Format, opts.EncodeOptions())
	if err != nil {
		s.metrics.transformsTotal.WithLabelValues(opts.Format.String(), "encode_error").Inc()
		s.logger.Printf("encode failed request=%s format=%s: %v", requestID, opts.Format, err)
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error(), "request_id": requestID})
		return
	}

	s.metrics.transformsTotal.WithLabelValues(opts.Format.String(), "ok").Inc()
	s.metrics.transformDuration.WithLabelValues(opts.Format.String()).Observe(time.Since(start).Seconds())
	s.metrics.pixelsProcessedTotal.Add(float64(img.Width * img.Height))
	annotateTransformSpan(r.Context(), requestID, opts.Format, out.Width, out.Height)

	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("X-Source-Format", srcFormat.String())
	w.Header().Set("X-Image-Width", strconv.Itoa(out.Width))
	w.Header().Set("X-Image-Height", strconv.Itoa(out.Height))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Printf("write response failed request=%s: %v", requestID, err)
	}
}

func (s *Server) readTransformRequest(r *http.Request) ([]byte, domain.TransformRequest, error) {
	var req domain.TransformRequest

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	if mediaType != "multipart/form-data" {
		// Raw body: the whole request body is the source image and all
		// options keep their defaults.
		source, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyBytes+1))
		if err != nil {
			return nil, req, fmt.Errorf("read request body: %w", err)
		}
		if int64(len(source)) > s.maxBodyBytes {
			return nil, req, fmt.Errorf("request body exceeds %d bytes", s.maxBodyBytes)
		}
		if len(source) == 0 {
			return nil, req, errors.New("request body is empty")
		}
		return source, req, nil
	}

	if err := r.ParseMultipartForm(s.maxBodyBytes); err != nil {
		return nil, req, fmt.Errorf("parse multipart form: %w", err)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, req, errors.New(`multipart form requires an "image" file part`)
	}
	defer file.Close()

	source, err := io.ReadAll(io.LimitReader(file, s.maxBodyBytes+1))
	if err != nil {
		return nil, req, fmt.Errorf("read image part: %w", err)
	}
	if int64(len(source)) > s.maxBodyBytes {
		return nil, req, fmt.Errorf("image part exceeds %d bytes", s.maxBodyBytes)
	}
	if len(source) == 0 {
		return nil, req, errors.New("image part is empty")
	}

	if optionsJSON := r.FormValue("options"); strings.TrimSpace(optionsJSON) != "" {
		decoder := json.NewDecoder(strings.NewReader(optionsJSON))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return nil, req, fmt.Errorf("invalid options JSON: %w", err)
		}
	}
	return source, req, nil
}

// statusForError is the single place internal errors become HTTP
// statuses; the error text itself is passed through untouched.
func statusForError(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidConfig),
		errors.Is(err, pixel.ErrInvalidDimension):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrDecodeFailure),
		errors.Is(err, bmp.ErrTooSmall),
		errors.Is(err, bmp.ErrInvalidFormat),
		errors.Is(err, bmp.ErrTruncated):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codec.ErrUnsupportedFormat),
		errors.Is(err, bmp.ErrUnsupportedCompression),
		errors.Is(err, bmp.ErrUnsupportedBitDepth):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
