// Package http serves the exports over net/http.
//
// Routes register on a caller-supplied ServeMux:
//   - Index: GET {index.path} (default /llms.txt)
//   - Full: GET {full.path} (default /llms-full.txt)
//   - Page mirrors: GET /{id...}.md when pages are enabled
//   - Metrics: GET {metrics.path} (default /metrics) when metrics are enabled
//
// Host applications can mount the same handlers on their own routers.
package http
