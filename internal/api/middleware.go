package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wgomg/versa/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestID tags every request with an id, taken from the inbound
// header when present, and logs its outcome.
func WithRequestID(logger *utils.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(utils.WithRequestID(r.Context(), reqID)))

		logger.Info(&reqID, "%s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
