package core

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/db"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", MimeTypeJSON)
	return req
}

// assertResponse checks status and code against a precomputed response.
func assertResponse(t *testing.T, rr *httptest.ResponseRecorder, want jsonResponse) {
	t.Helper()
	if rr.Code != want.status {
		t.Errorf("status = %d, want %d (body %s)", rr.Code, want.status, rr.Body.String())
	}
	if got := strings.TrimSpace(rr.Body.String()); got != string(want.body) {
		t.Errorf("body = %s, want %s", got, want.body)
	}
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rr.Body.String(), err)
	}
}

// verifiedUser returns a verified user whose password is password.
func verifiedUser(t *testing.T, password string) *db.User {
	t.Helper()
	hash, err := crypto.GenerateHash(password)
	if err != nil {
		t.Fatalf("GenerateHash() error = %v", err)
	}
	return &db.User{
		ID:         "user-1",
		Email:      "ann@example.com",
		Name:       "Ann",
		Password:   hash,
		AvatarURL:  "https://www.gravatar.com/avatar/x",
		Verified:   true,
		DailyNorma: 2,
		Gender:     "female",
	}
}
