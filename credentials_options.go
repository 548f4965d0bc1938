package credentials

import (
	"log/slog"
	"os"

	"github.com/aquanorma/credentials/avatar"
	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/core"
	phuslog "github.com/phuslu/log"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Option func(*initializer)

// initializer collects what the options override. Zero fields are built
// from the configuration by New.
type initializer struct {
	logger      *slog.Logger
	pool        *sqlitex.Pool
	mailer      core.Mailer
	avatarStore avatar.Store
}

// WithLogger sets the logger, ignoring the [Log] section of the config.
func WithLogger(l *slog.Logger) Option {
	return func(i *initializer) {
		i.logger = l
	}
}

// WithPhusLogger logs JSON to stderr through phuslu/log's slog handler.
func WithPhusLogger(opts *slog.HandlerOptions) Option {
	return WithLogger(slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts)))
}

// WithTextLogger logs with the standard library's text handler to stdout.
func WithTextLogger(opts *slog.HandlerOptions) Option {
	return WithLogger(slog.New(slog.NewTextHandler(os.Stdout, opts)))
}

// WithZombiezenPool shares an existing pool. New applies the schema to it
// but the caller keeps ownership and closes it.
func WithZombiezenPool(pool *sqlitex.Pool) Option {
	return func(i *initializer) {
		i.pool = pool
	}
}

func WithMailer(m core.Mailer) Option {
	return func(i *initializer) {
		i.mailer = m
	}
}

// WithAvatarStore replaces the S3 store built from [Avatar.S3].
func WithAvatarStore(s avatar.Store) Option {
	return func(i *initializer) {
		i.avatarStore = s
	}
}

// NewLogger builds the logger described by the [Log] section: phuslu's JSON
// handler for "json", the standard text handler otherwise.
func NewLogger(cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.Level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
}
