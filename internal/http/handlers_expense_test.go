package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postCSV(t *testing.T, srv *Server, mode, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if mode != "" {
		if err := mw.WriteField("mode", mode); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	fw, err := mw.CreateFormFile("file", "expenses.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	mw.Close()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestCreateExpenseSuccess(t *testing.T) {
	srv, st := newTestServer(t)

	rr := postForm(srv, "/expenses", url.Values{
		"date":     {"2024-01-05"},
		"category": {"Food"},
		"amount":   {"12,50"},
		"note":     {"Lunch"},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "expense:created") {
		t.Errorf("HX-Trigger missing expense:created: %q", rr.Header().Get("HX-Trigger"))
	}

	items, err := st.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(items) != 1 || items[0].Amount.Cents != 1250 {
		t.Errorf("stored items = %+v, want one 1250-cent expense", items)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"missing date", url.Values{"category": {"Food"}, "amount": {"1.00"}}},
		{"bad date", url.Values{"date": {"05/01/2024"}, "category": {"Food"}, "amount": {"1.00"}}},
		{"missing category", url.Values{"date": {"2024-01-05"}, "amount": {"1.00"}}},
		{"zero amount", url.Values{"date": {"2024-01-05"}, "category": {"Food"}, "amount": {"0"}}},
		{"negative amount", url.Values{"date": {"2024-01-05"}, "category": {"Food"}, "amount": {"-5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, st := newTestServer(t)
			rr := postForm(srv, "/expenses", tt.form)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rr.Code)
			}
			if items, _ := st.ListAll(context.Background()); len(items) != 0 {
				t.Errorf("invalid form stored %d items", len(items))
			}
		})
	}
}

func TestExpensesPageListsRows(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	for _, want := range []string{"2024-01-05", "Food", "$12.50"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("expenses page missing %q", want)
		}
	}
}

func TestImportReplaceAndAppend(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-01", "Old", 100)

	rr := postCSV(t, srv, "replace", "date,category,amount,note\n2024-02-01,Rent,900.00,\n")
	if rr.Code != http.StatusOK {
		t.Fatalf("replace status = %d, body: %s", rr.Code, rr.Body.String())
	}
	items, _ := st.ListAll(context.Background())
	if len(items) != 1 || items[0].Category != "Rent" {
		t.Fatalf("after replace items = %+v", items)
	}

	rr = postCSV(t, srv, "append", "date,category,amount,note\n2024-02-02,Food,15.00,\n")
	if rr.Code != http.StatusOK {
		t.Fatalf("append status = %d, body: %s", rr.Code, rr.Body.String())
	}
	items, _ = st.ListAll(context.Background())
	if len(items) != 2 {
		t.Fatalf("after append items = %d, want 2", len(items))
	}

	if !strings.Contains(rr.Header().Get("HX-Trigger"), "table:changed") {
		t.Errorf("HX-Trigger missing table:changed: %q", rr.Header().Get("HX-Trigger"))
	}
}

func TestImportBadFileRejectsWhole(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-01", "Food", 100)

	rr := postCSV(t, srv, "replace", "date,category,amount\n2024-02-01,Rent,900.00\nbad-date,Food,1.00\n")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "row 3") {
		t.Errorf("error should name the bad row, body: %s", rr.Body.String())
	}

	items, _ := st.ListAll(context.Background())
	if len(items) != 1 {
		t.Errorf("failed import changed the table: %d items", len(items))
	}
}

func TestImportMissingColumn(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postCSV(t, srv, "replace", "date,category,note\n2024-02-01,Rent,x\n")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
}

func TestExportRoundTrip(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)
	seedExpense(t, st, "2024-01-20", "Transport", 800)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rr.Body.String()
	for _, want := range []string{"date,category,amount,note", "2024-01-05,Food,12.50,", "2024-01-20,Transport,8.00,"} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing line %q, body: %s", want, body)
		}
	}
}

func TestChartEndpointsAndCache(t *testing.T) {
	srv, st := newTestServer(t)
	seedExpense(t, st, "2024-01-05", "Food", 1250)

	for _, path := range []string{"/charts/category", "/charts/timeline"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Food") && path == "/charts/category" {
			t.Errorf("%s body missing category data", path)
		}
	}

	if srv.chartCache.Size() == 0 {
		t.Error("chart cache should hold rendered charts")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/charts/pie", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown chart status = %d, want 404", rr.Code)
	}
}
