package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-llms/internal/logging"
)

const headerRequestID = "X-Request-ID"

func newRequestID() string {
	return uuid.NewString()
}

// instrument wraps a route handler with request ids, access logging and
// metrics. route is the metrics label.
func (api *ExportAPI) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := api.now()

		requestID := strings.TrimSpace(r.Header.Get(headerRequestID))
		if requestID == "" || len(requestID) > 128 {
			requestID = api.newID()
		}
		w.Header().Set(headerRequestID, requestID)

		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"request_id": requestID,
			"route":      route,
		})
		r = r.WithContext(ctx)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)

		elapsed := api.now().Sub(start)
		api.metrics.ObserveRequest(r.Method, route, sw.status, elapsed.Seconds())
		logging.FromContext(ctx, api.logger).Debug("http.request.completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
