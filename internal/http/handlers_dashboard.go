package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// overviewView is the template model for the dashboard metrics panel.
type overviewView struct {
	Total         string
	Transactions  int
	Categories    int
	Budget        string
	Spent         string
	BudgetPercent int
	OverBudget    bool
	HasExpenses   bool
}

func buildOverviewView(ov services.Overview) overviewView {
	return overviewView{
		Total:         core.FormatCents(ov.Summary.Total.Cents),
		Transactions:  ov.Summary.Transactions,
		Categories:    ov.Summary.Categories,
		Budget:        core.FormatCents(ov.Budget.Budget.Cents),
		Spent:         core.FormatCents(ov.Budget.Spent.Cents),
		BudgetPercent: ov.Budget.Percent(),
		OverBudget:    ov.Budget.Over(),
		HasExpenses:   ov.Summary.Transactions > 0,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ov, err := s.svc.Overview(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview error", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	data := struct {
		Overview overviewView
		Today    string
	}{
		Overview: buildOverviewView(ov),
		Today:    time.Now().UTC().Format(core.DateLayout),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleOverviewPartial renders the metrics panel for htmx refreshes.
func (s *Server) handleOverviewPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ov, err := s.svc.Overview(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview partial error", "error", err)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Failed to load metrics</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Total: ` +
			template.HTMLEscapeString(core.FormatCents(ov.Summary.Total.Cents)) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "overview.html", buildOverviewView(ov)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "overview.html")
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Failed to render metrics</div></section>`))
	}
}
