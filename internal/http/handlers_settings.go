package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/images"
)

// handleSettings serves the settings page on GET and stores a new monthly
// budget on POST.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSettingsPage(w, r)
	case http.MethodPost:
		s.updateBudget(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderSettingsPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	budget, err := s.store.Budget(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Read budget error", "error", err)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	data := struct {
		Budget        string
		BudgetDollars float64
		HasProfile    bool
		HasBanner     bool
	}{
		Budget:        core.FormatCents(budget),
		BudgetDollars: core.Money{Cents: budget}.Dollars(),
		HasProfile:    s.images.Has(images.SlotProfile),
		HasBanner:     s.images.Has(images.SlotBanner),
	}

	if err := s.templates.ExecuteTemplate(w, "settings.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Settings template execution failed", "error", err, "template", "settings.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	cents, err := ParseBudgetForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	if err := s.svc.SetBudget(r.Context(), cents); err != nil {
		slog.ErrorContext(r.Context(), "Set budget error", "error", err, "cents", cents)
		InternalServerError("Failed to save budget").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerBudgetUpdated().
		TriggerSuccessNotification("Budget updated").
		BodyHTML(`<div class="success">Monthly budget set to ` + core.FormatCents(cents) + `</div>`).
		Write(w)
}

// handleReset clears the expense table.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if err := s.svc.ResetTable(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Reset table error", "error", err)
		InternalServerError("Failed to reset table").Write(w)
		return
	}

	s.invalidateCharts()

	NewHTMXResponse().
		TriggerTableChanged(0).
		TriggerSuccessNotification("All expenses deleted").
		BodyHTML(`<div class="success">Expense table cleared</div>`).
		Write(w)
}

// handleLoadSample replaces the table with the bundled sample records.
func (s *Server) handleLoadSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	count, err := s.svc.LoadSampleData(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load sample data error", "error", err)
		InternalServerError("Failed to load sample data").Write(w)
		return
	}

	s.invalidateCharts()

	NewHTMXResponse().
		TriggerTableChanged(count).
		TriggerSuccessNotification("Sample data loaded").
		BodyHTML(fmt.Sprintf(`<div class="success">Loaded %d sample expenses</div>`, count)).
		Write(w)
}

// handleImageUpload stores a profile or banner picture.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err)
		BadRequestError("Invalid upload").Write(w)
		return
	}

	slot := strings.TrimSpace(r.Form.Get("slot"))
	file, _, err := r.FormFile("file")
	if err != nil {
		BadRequestError("Missing image file").Write(w)
		return
	}
	defer file.Close()

	if err := s.images.Put(slot, file); err != nil {
		slog.WarnContext(r.Context(), "Image upload rejected", "error", err, "slot", slot)
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	NewHTMXResponse().
		Trigger("image:updated", map[string]string{"slot": slot}).
		TriggerSuccessNotification("Image updated").
		BodyHTML(`<div class="success">Image updated</div>`).
		Write(w)
}

// handleAsset serves the profile or banner image, falling back to the
// placeholder when nothing was uploaded.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	slot := strings.TrimPrefix(r.URL.Path, "/assets/")
	img, err := s.images.Get(slot)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(img.Data)
}
