package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-llms/internal/export"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/internal/metrics"
	"github.com/goliatone/go-llms/internal/runtimeconfig"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

const (
	routeIndex   = "index"
	routeFull    = "full"
	routePage    = "page"
	routeMetrics = "metrics"

	pageSuffix = ".md"
)

// ExportAPI registers the export endpoints.
type ExportAPI struct {
	exporter interfaces.Exporter
	cfg      runtimeconfig.Config
	logger   interfaces.Logger
	metrics  *metrics.Metrics
	newID    func() string
	now      func() time.Time
}

// ExportOption mutates the ExportAPI configuration.
type ExportOption func(*ExportAPI)

// NewExportAPI constructs an ExportAPI serving exporter with the endpoint
// settings from cfg.
func NewExportAPI(exporter interfaces.Exporter, cfg runtimeconfig.Config, opts ...ExportOption) *ExportAPI {
	api := &ExportAPI{
		exporter: exporter,
		cfg:      cfg,
		logger:   logging.NoOp(),
		newID:    newRequestID,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) ExportOption {
	return func(api *ExportAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithMetrics records request and export metrics. The scrape endpoint is
// only registered when metrics are enabled in config.
func WithMetrics(m *metrics.Metrics) ExportOption {
	return func(api *ExportAPI) {
		api.metrics = m
	}
}

// WithRequestIDGenerator overrides the X-Request-ID generator.
func WithRequestIDGenerator(fn func() string) ExportOption {
	return func(api *ExportAPI) {
		if fn != nil {
			api.newID = fn
		}
	}
}

// Register mounts the routes on mux.
func (api *ExportAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.exporter == nil {
		return fmt.Errorf("http: export api requires an exporter")
	}

	mux.Handle("GET "+cleanPath(api.cfg.Index.Path), api.instrument(routeIndex, api.handleIndex))
	mux.Handle("GET "+cleanPath(api.cfg.Full.Path), api.instrument(routeFull, api.handleFull))
	if api.cfg.Pages.Enabled {
		mux.Handle("GET /{path...}", api.instrument(routePage, api.handlePage))
	}
	if api.cfg.Metrics.Enabled && api.metrics != nil {
		mux.Handle("GET "+cleanPath(api.cfg.Metrics.Path), api.metrics.Handler())
	}
	return nil
}

// Handler returns a mux with the routes registered.
func (api *ExportAPI) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func (api *ExportAPI) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc, err := api.exporter.Index(r.Context(), api.cfg.IndexRequest())
	if err != nil {
		api.writeError(w, r, routeIndex, err)
		return
	}
	api.metrics.ObserveExport(routeIndex, doc.Entries)
	writeDocument(w, doc)
}

func (api *ExportAPI) handleFull(w http.ResponseWriter, r *http.Request) {
	doc, err := api.exporter.Full(r.Context(), api.cfg.FullRequest())
	if err != nil {
		api.writeError(w, r, routeFull, err)
		return
	}
	api.metrics.ObserveExport(routeFull, doc.Entries)
	writeDocument(w, doc)
}

func (api *ExportAPI) handlePage(w http.ResponseWriter, r *http.Request) {
	rest := r.PathValue("path")
	if !strings.HasSuffix(rest, pageSuffix) {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSuffix(rest, pageSuffix)

	doc, err := api.exporter.Page(r.Context(), interfaces.PageRequest{ID: id})
	if err != nil {
		api.writeError(w, r, routePage, err)
		return
	}
	writeDocument(w, doc)
}

func (api *ExportAPI) writeError(w http.ResponseWriter, r *http.Request, route string, err error) {
	status, message := mapError(err)
	logger := logging.FromContext(r.Context(), api.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("http.export.failed", "route", route, "status", status, "error", err)
	} else {
		logger.Debug("http.export.rejected", "route", route, "status", status, "error", err)
	}
	http.Error(w, message, status)
}

func writeDocument(w http.ResponseWriter, doc *interfaces.ExportDocument) {
	contentType := doc.ContentType
	if contentType == "" {
		contentType = interfaces.ContentTypePlainText
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Body))
}

func cleanPath(path string) string {
	return runtimeconfig.CleanPath(path)
}

// mapError maps export failures to a status and a plain-text message.
func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "unknown error"
	case export.IsStoreFailure(err):
		return http.StatusServiceUnavailable, "content store unavailable"
	case errors.Is(err, export.ErrPageNotFound), errors.Is(err, export.ErrPageIDRequired):
		return http.StatusNotFound, "page not found"
	default:
		return http.StatusInternalServerError, "export failed"
	}
}
