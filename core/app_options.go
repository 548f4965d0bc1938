package core

import (
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

type Option func(*App)

func WithDbAuth(d db.DbAuth) Option {
	return func(a *App) {
		a.dbAuth = d
	}
}

// WithCache sets the cache backing the email cooldowns.
func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

func WithAvatarStore(s avatar.Store) Option {
	return func(a *App) {
		a.avatarStore = s
	}
}

func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.authenticator = auth
	}
}

func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

// WithMetrics enables the Prometheus counters. Without it nothing is recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithIPSketch enables BlockIP. The sketch spots the clients to block.
func WithIPSketch(s *topk.TopKSketch) Option {
	return func(a *App) {
		a.ipSketch = s
	}
}

// WithNotifier sets where operator alarms go. The default drops them.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}
