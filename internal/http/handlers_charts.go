package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"expensetracker/internal/charts"
)

// handleChartsPage serves the visualizations page; the chart iframes load
// themselves from the fragment endpoints below.
func (s *Server) handleChartsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	if err := s.templates.ExecuteTemplate(w, "charts.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Charts template execution failed", "error", err, "template", "charts.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleChart serves one rendered chart document. Results are cached per
// chart kind and table version, so repeated views of an unchanged table
// hit the cache.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/charts/")

	version, err := s.store.Version(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Table version error", "error", err)
		http.Error(w, "failed to load chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	key := fmt.Sprintf("%s:%d", kind, version)
	if html, found := s.chartCache.Get(key); found {
		slog.DebugContext(r.Context(), "Chart cache hit", "kind", kind, "version", version)
		_, _ = w.Write([]byte(html))
		return
	}

	items, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		http.Error(w, "failed to load chart", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, kind, items); err != nil {
		slog.ErrorContext(r.Context(), "Chart render error", "error", err, "kind", kind)
		http.Error(w, "unknown chart", http.StatusNotFound)
		return
	}

	s.chartCache.Set(key, buf.String())
	slog.DebugContext(r.Context(), "Chart cached", "kind", kind, "version", version, "bytes", buf.Len())

	_, _ = w.Write(buf.Bytes())
}
