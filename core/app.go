package core

import (
	"fmt"
	"log/slog"

	"github.com/aquanorma/credentials/avatar"
	"github.com/aquanorma/credentials/cache"
	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/db"
	"github.com/aquanorma/credentials/metrics"
	"github.com/aquanorma/credentials/notify"
	"github.com/aquanorma/credentials/router"
	"github.com/aquanorma/credentials/topk"
)

// App holds the collaborators of the credential handlers. All handlers and
// middleware have App as receiver.
type App struct {
	dbAuth         db.DbAuth
	router         router.Router
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger
	mailer         Mailer
	avatarStore    avatar.Store
	authenticator  Authenticator
	validator      Validator
	metrics        *metrics.Metrics
	ipSketch       *topk.TopKSketch
	notifier       notify.Notifier
}

// NewApp applies opts and checks the required collaborators. A missing
// authenticator or validator gets the default implementation.
func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.dbAuth == nil {
		return nil, fmt.Errorf("dbAuth is required but was not provided (use WithDbAuth)")
	}
	if a.configProvider == nil {
		return nil, fmt.Errorf("config provider is required but was not provided (use WithConfigProvider)")
	}
	if a.router == nil {
		return nil, fmt.Errorf("router is required but was not provided (use WithRouter)")
	}
	if a.cache == nil {
		return nil, fmt.Errorf("cache is required but was not provided (use WithCache)")
	}
	if a.mailer == nil {
		return nil, fmt.Errorf("mailer is required but was not provided (use WithMailer)")
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.notifier == nil {
		a.notifier = notify.NewNilNotifier()
	}
	if a.validator == nil {
		a.validator = NewValidator()
	}
	if a.authenticator == nil {
		a.authenticator = NewDefaultAuthenticator(a.dbAuth, a.logger, a.configProvider)
	}

	return a, nil
}

func (a *App) Router() router.Router {
	return a.router
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

// Config returns the current configuration.
func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) Mailer() Mailer {
	return a.mailer
}

// AvatarStore may be nil when no object storage is configured.
func (a *App) AvatarStore() avatar.Store {
	return a.avatarStore
}

func (a *App) Auth() Authenticator {
	return a.authenticator
}

func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) Notifier() notify.Notifier {
	return a.notifier
}

// Metrics may be nil; recording on a nil *metrics.Metrics is a no-op.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
