package holidays

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClientHolidays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("country"); got != "BE" {
			t.Errorf("country = %q, want BE", got)
		}
		if got := r.URL.Query().Get("year"); got != "2026" {
			t.Errorf("year = %q, want 2026", got)
		}
		if got := r.URL.Query().Get("language"); got != "nl" {
			t.Errorf("language = %q, want nl", got)
		}
		if got := r.URL.Query()["category"]; len(got) != 2 {
			t.Errorf("categories = %v, want two values", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"holidays": [
			{"date": "2026-01-01", "name": "Nieuwjaar"},
			{"date": "2026-12-25", "name": "Kerstmis"},
			{"date": "not-a-date", "name": "Broken"}
		]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", 5*time.Second, zap.NewNop())
	got, err := c.Holidays(context.Background(), "BE", 2026, "nl",
		[]Category{CategoryBank, CategoryPublic})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d holidays, want 2 (unparseable date skipped)", len(got))
	}
	if got[0].Name != "Nieuwjaar" || got[0].Date.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("first holiday = %+v", got[0])
	}
}

func TestClientHolidays_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantText bool
	}{
		{
			name:    "categories unsupported",
			status:  http.StatusUnprocessableEntity,
			body:    `{"error": {"code": "categories_unsupported", "message": "no categories for XX"}}`,
			wantErr: ErrCategoriesUnsupported,
		},
		{
			name:    "language unsupported",
			status:  http.StatusUnprocessableEntity,
			body:    `{"error": {"code": "language_unsupported", "message": "no names in tlh"}}`,
			wantErr: ErrLocaleUnsupported,
		},
		{
			name:     "generic failure",
			status:   http.StatusInternalServerError,
			body:     `{"error": {"code": "boom", "message": "database on fire"}}`,
			wantText: true,
		},
		{
			name:     "undecodable error body",
			status:   http.StatusBadGateway,
			body:     `<html>oops</html>`,
			wantText: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL, "", 5*time.Second, zap.NewNop())
			_, err := c.Holidays(context.Background(), "XX", 2026, "tlh", nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText {
				if errors.Is(err, ErrCategoriesUnsupported) || errors.Is(err, ErrLocaleUnsupported) {
					t.Errorf("generic failure mapped to a sentinel: %v", err)
				}
			}
		})
	}
}
