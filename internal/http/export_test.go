package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-llms/internal/content"
	"github.com/goliatone/go-llms/internal/export"
	"github.com/goliatone/go-llms/internal/metrics"
	"github.com/goliatone/go-llms/internal/runtimeconfig"
	"github.com/goliatone/go-llms/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type failingStore struct{}

func (failingStore) GetAll(context.Context) ([]interfaces.DocumentEntry, error) {
	return nil, errors.New("collection unavailable")
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Title = "tollbooth docs"
	cfg.Site.Summary = "Documentation for tollbooth."
	cfg.Site.Origin = "https://docs.test"
	cfg.Index.Canonical = []string{"welcome"}
	cfg.Pages.Enabled = true
	return cfg
}

func testCorpus() *content.MemoryStore {
	return content.NewMemoryStore(
		interfaces.DocumentEntry{ID: "guides/intro", Title: "Intro", Body: "<Tip>read me</Tip>", HasBody: true},
		interfaces.DocumentEntry{ID: "welcome", Title: "Welcome", Body: "Hello", HasBody: true},
	)
}

func setupExportAPI(t *testing.T, store interfaces.ContentStore, cfg runtimeconfig.Config) (*http.ServeMux, *metrics.Metrics) {
	t.Helper()
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	api := NewExportAPI(export.NewService(store), cfg,
		WithMetrics(m),
		WithRequestIDGenerator(func() string { return "req-1" }),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux, m
}

func doRequest(t *testing.T, handler http.Handler, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestExportAPI_Index(t *testing.T) {
	mux, m := setupExportAPI(t, testCorpus(), testConfig())

	resp := doRequest(t, mux, "/llms.txt", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != interfaces.ContentTypePlainText {
		t.Fatalf("unexpected content type %q", ct)
	}
	if id := resp.Header.Get(headerRequestID); id != "req-1" {
		t.Fatalf("expected generated request id, got %q", id)
	}

	body := readBody(t, resp)
	want := "# tollbooth docs\n\n> Documentation for tollbooth.\n\n## Pages\n\n" +
		"- [Welcome](https://docs.test/welcome/): [markdown](https://docs.test/welcome.md)\n" +
		"- [Intro](https://docs.test/guides/intro/): [markdown](https://docs.test/guides/intro.md)\n"
	if body != want {
		t.Fatalf("unexpected index body:\n%q\nwant:\n%q", body, want)
	}

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", routeIndex, "200")); got != 1 {
		t.Fatalf("expected one counted index request, got %v", got)
	}
	if got := testutil.ToFloat64(m.ExportEntries.WithLabelValues(routeIndex)); got != 2 {
		t.Fatalf("expected entries gauge 2, got %v", got)
	}
}

func TestExportAPI_FullUsesItsOwnCanonicalOrder(t *testing.T) {
	mux, _ := setupExportAPI(t, testCorpus(), testConfig())

	resp := doRequest(t, mux, "/llms-full.txt", map[string]string{headerRequestID: "upstream-7"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if id := resp.Header.Get(headerRequestID); id != "upstream-7" {
		t.Fatalf("expected request id to be echoed, got %q", id)
	}
	body := readBody(t, resp)
	intro := strings.Index(body, "# Intro")
	welcome := strings.Index(body, "# Welcome")
	if intro < 0 || welcome < 0 || intro > welcome {
		t.Fatalf("expected corpus order without canonical list:\n%s", body)
	}
	if strings.Contains(body, "<Tip>") {
		t.Fatalf("expected normalised bodies:\n%s", body)
	}
}

func TestExportAPI_StoreFailureIs503(t *testing.T) {
	mux, m := setupExportAPI(t, failingStore{}, testConfig())

	for _, path := range []string{"/llms.txt", "/llms-full.txt", "/welcome.md"} {
		resp := doRequest(t, mux, path, nil)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, resp.StatusCode)
		}
		if body := readBody(t, resp); strings.Contains(body, "collection unavailable") {
			t.Fatalf("%s: store error leaked into response: %q", path, body)
		}
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", routeFull, "503")); got != 1 {
		t.Fatalf("expected one counted 503, got %v", got)
	}
}

func TestExportAPI_Pages(t *testing.T) {
	mux, _ := setupExportAPI(t, testCorpus(), testConfig())

	resp := doRequest(t, mux, "/guides/intro.md", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != interfaces.ContentTypeMarkdown {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := readBody(t, resp); body != "# Intro\n\nread me\n" {
		t.Fatalf("unexpected page body %q", body)
	}

	for _, path := range []string{"/missing.md", "/guides/intro", "/.md"} {
		if resp := doRequest(t, mux, path, nil); resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestExportAPI_PagesDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Pages.Enabled = false
	mux, _ := setupExportAPI(t, testCorpus(), cfg)

	if resp := doRequest(t, mux, "/welcome.md", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without page mirrors, got %d", resp.StatusCode)
	}
}

func TestExportAPI_Metrics(t *testing.T) {
	mux, _ := setupExportAPI(t, testCorpus(), testConfig())
	_ = doRequest(t, mux, "/llms.txt", nil)

	resp := doRequest(t, mux, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "llms_http_requests_total") {
		t.Fatalf("expected request counter in scrape output")
	}

	cfg := testConfig()
	cfg.Metrics.Enabled = false
	cfg.Pages.Enabled = false
	mux, _ = setupExportAPI(t, testCorpus(), cfg)
	if resp := doRequest(t, mux, "/metrics", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when metrics are disabled, got %d", resp.StatusCode)
	}
}

func TestExportAPI_CustomPaths(t *testing.T) {
	cfg := testConfig()
	cfg.Index.Path = "/ai/index.txt"
	cfg.Full.Path = "/ai/full.txt"
	cfg.Pages.Enabled = false
	mux, _ := setupExportAPI(t, testCorpus(), cfg)

	if resp := doRequest(t, mux, "/ai/index.txt", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 at custom index path, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, mux, "/llms.txt", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected default path to be unregistered, got %d", resp.StatusCode)
	}
}

func TestExportAPI_RegisterRequiresMux(t *testing.T) {
	api := NewExportAPI(export.NewService(testCorpus()), testConfig())
	if err := api.Register(nil); err == nil {
		t.Fatal("expected error for nil mux")
	}
	if err := NewExportAPI(nil, testConfig()).Register(http.NewServeMux()); err == nil {
		t.Fatal("expected error for nil exporter")
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{export.ErrPageNotFound, http.StatusNotFound},
		{export.ErrPageIDRequired, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if status, _ := mapError(tc.err); status != tc.want {
			t.Fatalf("mapError(%v) = %d, want %d", tc.err, status, tc.want)
		}
	}
}

func TestExportAPI_RegisterAcceptsValidatedPaths(t *testing.T) {
	cfg := testConfig()
	cfg.Index.Path = "//ai/index.txt"
	cfg.Full.Path = "/ai/full.txt"
	cfg.Metrics.Path = "//ai/metrics"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	mux, _ := setupExportAPI(t, testCorpus(), cfg)
	for _, path := range []string{"/ai/index.txt", "/ai/full.txt", "/ai/metrics"} {
		if resp := doRequest(t, mux, path, nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
