package core

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/db"
	"github.com/aquanorma/credentials/db/mock"
	"github.com/aquanorma/credentials/notify"
)

type sentMail struct {
	kind  string
	email string
	value string
}

// MockMailer records every send. SendFunc, when set, decides the result.
type MockMailer struct {
	SendFunc func(kind, email, value string) error

	mu    sync.Mutex
	sends []sentMail
}

func (m *MockMailer) record(kind, email, value string) error {
	m.mu.Lock()
	m.sends = append(m.sends, sentMail{kind: kind, email: email, value: value})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(kind, email, value)
	}
	return nil
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, email, verifyURL string) error {
	return m.record("verification", email, verifyURL)
}

func (m *MockMailer) SendRecoveryPassword(ctx context.Context, email, password string) error {
	return m.record("recovery", email, password)
}

func (m *MockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sends...)
}

type MockAvatarStore struct {
	UploadFunc func(ctx context.Context, path, contentType string) (string, error)
}

func (m *MockAvatarStore) Upload(ctx context.Context, path, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, path, contentType)
	}
	return "https://cdn.example.com/avatars/mock.png", nil
}

type MockAuth struct {
	AuthenticateFunc func(r *http.Request) (*db.User, error, jsonResponse)
}

func (m *MockAuth) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(r)
	}
	return nil, nil, jsonResponse{}
}

type MockValidator struct {
	ContentTypeFunc func(r *http.Request, allowedType string) (error, jsonResponse)
}

func (m *MockValidator) ContentType(r *http.Request, allowedType string) (error, jsonResponse) {
	if m.ContentTypeFunc != nil {
		return m.ContentTypeFunc(r, allowedType)
	}
	return nil, jsonResponse{}
}

// MockRouter only answers Param; routing is tested in the router packages.
type MockRouter struct {
	ParamFunc func(req *http.Request, key string) string
}

func (m *MockRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {}

func (m *MockRouter) Handle(pattern string, handler http.Handler) {}

func (m *MockRouter) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {}

func (m *MockRouter) Param(req *http.Request, key string) string {
	if m.ParamFunc != nil {
		return m.ParamFunc(req, key)
	}
	return ""
}

// MockCache keeps entries forever; TTLs are ignored.
type MockCache struct {
	m sync.Map
}

func (c *MockCache) Get(key string) (any, bool) {
	return c.m.Load(key)
}

func (c *MockCache) Set(key string, value any, cost int64) bool {
	c.m.Store(key, value)
	return true
}

func (c *MockCache) SetWithTTL(key string, value any, cost int64, ttl time.Duration) bool {
	c.m.Store(key, value)
	return true
}

// testApp bundles an App with the mocks behind it.
// MockNotifier records the notifications it receives.
type MockNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (m *MockNotifier) Send(ctx context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

func (m *MockNotifier) Sent() []notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.sent...)
}

type testApp struct {
	*App
	db       *mock.Db
	mailer   *MockMailer
	cache    *MockCache
	router   *MockRouter
	notifier *MockNotifier
	cfg      *config.Config
}

// newTestApp builds an App on mocks with SMTP enabled and a fixed JWT
// secret. Extra options are applied last.
func newTestApp(t interface{ Fatalf(string, ...any) }, opts ...Option) *testApp {
	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = "test_secret_32_bytes_long_xxxxxx"
	cfg.Smtp.Enabled = true
	cfg.Log.Request.Activated = false

	ta := &testApp{
		db:       &mock.Db{},
		mailer:   &MockMailer{},
		cache:    &MockCache{},
		router:   &MockRouter{},
		notifier: &MockNotifier{},
		cfg:      cfg,
	}

	all := []Option{
		WithDbAuth(ta.db),
		WithMailer(ta.mailer),
		WithCache(ta.cache),
		WithRouter(ta.router),
		WithConfigProvider(config.NewProvider(cfg)),
		WithLogger(discardLogger()),
		WithNotifier(ta.notifier),
	}
	all = append(all, opts...)

	app, err := NewApp(all...)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	ta.App = app
	return ta
}
