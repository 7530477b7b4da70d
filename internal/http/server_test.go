package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/images"
	"expensetracker/internal/services"
	"expensetracker/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	srv := NewServer(":0", Options{
		Service:        services.NewExpenseService(st, nil),
		Store:          st,
		Images:         images.NewStore(1 << 20),
		MaxUploadBytes: 1 << 20,
	})
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv, st
}

func seedExpense(t *testing.T, st *memory.Store, date, category string, cents int64) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", date, err)
	}
	if _, err := st.Append(context.Background(), core.Expense{
		Date: d, Category: category, Amount: core.Money{Cents: cents},
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestIndexRendersOverview(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("index status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Expense Tracker", "$12.50", "Add Expense"} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
}

func TestIndexUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for name, want := range headers {
		if got := rr.Header().Get(name); got != want {
			t.Errorf("header %s = %q, want %q", name, got, want)
		}
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestChartFragmentsAllowSameOriginFraming(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)

	for _, path := range []string{"/charts/category", "/charts/timeline"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rr.Code)
		}
		if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
			t.Errorf("%s X-Frame-Options = %q, want SAMEORIGIN", path, got)
		}
	}

	// The visualizations page itself still refuses framing.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/charts", nil)
	srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("/charts X-Frame-Options = %q, want DENY", got)
	}
}

func TestRateLimitOnPost(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"date": {"2024-01-05"}, "category": {"Food"}, "amount": {"1.00"}}
	var lastCode int
	for i := 0; i < requestsPerMinute+1; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:4321"
		srv.Handler.ServeHTTP(rr, req)
		lastCode = rr.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("request %d status = %d, want 429", requestsPerMinute+1, lastCode)
	}
}

func TestOverviewPartial(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)
	seedExpense(t, st, "2024-01-20", "Transport", 800)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/overview", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("partial status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "$20.50") {
		t.Errorf("overview partial missing total, body: %s", rr.Body.String())
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:4321",
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy honors XFF",
			remoteAddr: "127.0.0.1:9000",
			xff:        "198.51.100.4",
			want:       "198.51.100.4",
		},
		{
			name:       "untrusted peer ignores XFF",
			remoteAddr: "203.0.113.7:4321",
			xff:        "198.51.100.4",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
