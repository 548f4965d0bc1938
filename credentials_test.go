package credentials

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aquanorma/credentials/notify/discord"
)

type fakeMailer struct {
	mu   sync.Mutex
	last string
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, email, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = verifyURL
	return nil
}

func (m *fakeMailer) SendRecoveryPassword(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = password
	return nil
}

func (m *fakeMailer) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func newTestService(t *testing.T) (http.Handler, *fakeMailer) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "credentials.toml")
	content := `
PublicURL = "https://water.example.com"

[Log.Request]
Activated = false

[Metrics]
Enabled = true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	pool, err := NewZombiezenPool(filepath.Join(dir, "users.db"))
	if err != nil {
		t.Fatalf("NewZombiezenPool() error = %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	mailer := &fakeMailer{}
	app, srv, err := New(context.Background(), cfgPath,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithZombiezenPool(pool),
		WithMailer(mailer),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv == nil {
		t.Fatal("New() returned a nil server")
	}
	return handler(app), mailer
}

func do(t *testing.T, h http.Handler, method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q", method, target, rr.Body.String())
		}
	}
	return rr, out
}

func TestCredentialFlow(t *testing.T) {
	h, mailer := newTestService(t)
	creds := `{"email":"ann@example.com","password":"pw123"}`

	rr, _ := do(t, h, "POST", "/api/users/signup", creds, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr, _ = do(t, h, "POST", "/api/users/signup", creds, "")
	if rr.Code != http.StatusConflict {
		t.Errorf("second signup status = %d, want 409", rr.Code)
	}

	// Unverified users cannot sign in.
	rr, _ = do(t, h, "POST", "/api/users/signin", creds, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unverified signin status = %d, want 401", rr.Code)
	}

	verifyURL := mailer.Last()
	prefix := "https://water.example.com"
	if !strings.HasPrefix(verifyURL, prefix+"/api/users/verify/") {
		t.Fatalf("verification url = %q", verifyURL)
	}
	verifyPath := strings.TrimPrefix(verifyURL, prefix)

	rr, body := do(t, h, "GET", verifyPath, "", "")
	if rr.Code != http.StatusOK || body["message"] != "Verification successful" {
		t.Fatalf("verify status = %d, body %v", rr.Code, body)
	}
	// Single use.
	rr, _ = do(t, h, "GET", verifyPath, "", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("second verify status = %d, want 404", rr.Code)
	}

	rr, body = do(t, h, "POST", "/api/users/signin", creds, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("signin status = %d, body %s", rr.Code, rr.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("signin returned no token: %v", body)
	}

	rr, body = do(t, h, "GET", "/api/users/current", "", token)
	if rr.Code != http.StatusOK || body["email"] != "ann@example.com" {
		t.Fatalf("current status = %d, body %v", rr.Code, body)
	}

	rr, body = do(t, h, "PATCH", "/api/users/dailynorma", `{"dailyNorma":2.5}`, token)
	if rr.Code != http.StatusOK || body["dailyNorma"] != 2.5 {
		t.Errorf("dailynorma status = %d, body %v", rr.Code, body)
	}

	// A password change hands out the session token to continue with.
	rr, body = do(t, h, "PATCH", "/api/users/settings", `{"password":"pw123","newPassword":"pw456"}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("settings status = %d, body %s", rr.Code, rr.Body.String())
	}
	oldToken := token
	token, _ = body["token"].(string)
	if token == "" {
		t.Fatalf("settings returned no token: %v", body)
	}
	rr, _ = do(t, h, "GET", "/api/users/current", "", token)
	if rr.Code != http.StatusOK {
		t.Errorf("current with the rotated token status = %d, want 200", rr.Code)
	}
	rr, _ = do(t, h, "GET", "/api/users/current", "", oldToken)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("current with the replaced token status = %d, want 401", rr.Code)
	}

	rr, _ = do(t, h, "POST", "/api/users/logout", "", token)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rr.Code)
	}

	rr, _ = do(t, h, "GET", "/api/users/current", "", token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("current after logout status = %d, want 401", rr.Code)
	}
}

func TestRouting(t *testing.T) {
	h, _ := newTestService(t)

	testCases := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"unknown route", "GET", "/api/unknown", http.StatusNotFound},
		{"wrong method", "GET", "/api/users/signup", http.StatusMethodNotAllowed},
		{"auth required", "GET", "/api/users/current", http.StatusUnauthorized},
		{"metrics", "GET", "/metrics", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr, _ := do(t, h, tc.method, tc.target, "", "")
			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[Log]\nFormat = \"xml\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := New(context.Background(), path, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err == nil {
		t.Fatal("New() with an invalid config succeeded")
	}
}

func TestNew_OptionalCollaborators(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "credentials.toml")
	content := `
DbFile = "` + filepath.Join(dir, "users.db") + `"

[BlockIp]
Enabled = true

[Notifier.Discord]
Enabled = true
WebhookURL = "https://discord.example.com/api/webhooks/1/token"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	app, _, err := New(context.Background(), cfgPath,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMailer(&fakeMailer{}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := app.Notifier().(*discord.Notifier); !ok {
		t.Errorf("notifier = %T, want *discord.Notifier", app.Notifier())
	}
	if app.Metrics() != nil {
		t.Error("metrics built while disabled")
	}
}
