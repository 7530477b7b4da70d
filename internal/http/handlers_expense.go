package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/csvio"
)

// handleExpenses serves the expense table page on GET and records a new
// expense on POST.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderExpensesPage(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

type expenseRow struct {
	Date     string
	Category string
	Amount   string
	Note     string
}

func (s *Server) renderExpensesPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	items, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	rows := make([]expenseRow, 0, len(items))
	for _, e := range items {
		rows = append(rows, expenseRow{
			Date:     e.Date.String(),
			Category: e.Category,
			Amount:   core.FormatCents(e.Amount.Cents),
			Note:     e.Note,
		})
	}

	data := struct {
		Rows  []expenseRow
		Count int
	}{Rows: rows, Count: len(rows)}

	if err := s.templates.ExecuteTemplate(w, "expenses.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Expenses template execution failed", "error", err, "template", "expenses.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	exp, err := ParseExpenseForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ref, err := s.svc.CreateExpense(r.Context(), exp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create error", "error", err,
			"category", exp.Category, "amount", exp.Amount.Cents)
		InternalServerError("Failed to save expense").Write(w)
		return
	}

	s.invalidateCharts()

	NewHTMXResponse().
		TriggerExpenseCreated().
		TriggerSuccessNotification("Expense recorded").
		BodyHTML(`<div class="success">Recorded (#` + template.HTMLEscapeString(ref) + `): ` +
			template.HTMLEscapeString(exp.Category) + ` ` +
			template.HTMLEscapeString(core.FormatCents(exp.Amount.Cents)) + `</div>`).
		Write(w)
}

// handleImport ingests a CSV upload into the table.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err)
		BadRequestError("Invalid upload").Write(w)
		return
	}

	mode, err := ParseImportMode(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		BadRequestError("Missing CSV file").Write(w)
		return
	}
	defer file.Close()

	count, err := s.svc.ImportCSV(r.Context(), file, mode)
	if err != nil {
		slog.WarnContext(r.Context(), "CSV import rejected", "error", err, "mode", mode)
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	s.invalidateCharts()

	NewHTMXResponse().
		TriggerTableChanged(count).
		TriggerSuccessNotification(fmt.Sprintf("Imported %d expenses", count)).
		BodyHTML(fmt.Sprintf(`<div class="success">Imported %d expenses (%s)</div>`, count, mode)).
		Write(w)
}

// handleExport streams the table as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	items, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	if err := csvio.Write(w, items); err != nil {
		// Headers are already gone; just log.
		slog.ErrorContext(r.Context(), "CSV export error", "error", err)
	}
}

// invalidateCharts drops expired chart entries after a table mutation.
// Entries are keyed by table version, so stale versions stop being
// requested on their own; this just keeps the cache small.
func (s *Server) invalidateCharts() {
	s.chartCache.CleanExpired()
}
