package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type RequestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an id, echoed in X-Request-Id,
// and logs it once it completes.
type RequestLogger struct {
	logger *slog.Logger
}

func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

func (im *RequestLogger) Decorate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(respW http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		respW.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: respW, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), RequestIDKey{}, id)))

		im.logger.Debug("http request",
			slog.String("request_id", id),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
