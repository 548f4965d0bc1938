package httprouter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouter_HandleAndParam(t *testing.T) {
	r := New(nil, nil)

	var got string
	r.HandleFunc("GET /api/users/verify/:verificationToken", func(w http.ResponseWriter, req *http.Request) {
		got = r.Param(req, "verificationToken")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/verify/abc123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got != "abc123" {
		t.Errorf("Param = %q, want abc123", got)
	}
}

func TestRouter_MethodMismatch(t *testing.T) {
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("custom"))
	})
	r := New(nil, methodNotAllowed)
	r.HandleFunc("POST /api/users/signup", func(w http.ResponseWriter, req *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/signup", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if rec.Body.String() != "custom" {
		t.Errorf("body = %q, want custom", rec.Body.String())
	}
}

func TestRouter_NotFound(t *testing.T) {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r := New(notFound, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestRouter_ParamMissing(t *testing.T) {
	r := New(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := r.Param(req, "id"); got != "" {
		t.Errorf("Param without route = %q, want empty", got)
	}
}

func TestRouter_HandleMalformedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for malformed pattern")
		}
	}()
	New(nil, nil).HandleFunc("/no-method", func(w http.ResponseWriter, req *http.Request) {})
}
