// Package credentials wires the credential service: configuration, user
// store, mailer, avatar store, cooldown cache, router and HTTP server.
package credentials

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aquanorma/credentials/avatar/s3"
	"github.com/aquanorma/credentials/cache/ristretto"
	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/core"
	"github.com/aquanorma/credentials/db/zombiezen"
	"github.com/aquanorma/credentials/mail"
	"github.com/aquanorma/credentials/metrics"
	"github.com/aquanorma/credentials/notify/discord"
	"github.com/aquanorma/credentials/router/httprouter"
	"github.com/aquanorma/credentials/server"
	"github.com/aquanorma/credentials/topk"
)

// cacheLevel sizes the cooldown cache; one entry per recently mailed email.
const cacheLevel = "medium"

// New loads the configuration at configPath (defaults when empty) and
// returns the wired App and the Server that serves it.
func New(ctx context.Context, configPath string, opts ...Option) (*core.App, *server.Server, error) {
	ini := &initializer{}
	for _, opt := range opts {
		opt(ini)
	}

	bootLogger := ini.logger
	if bootLogger == nil {
		bootLogger = slog.Default()
	}
	cfg, err := config.Load(configPath, bootLogger)
	if err != nil {
		return nil, nil, err
	}
	provider := config.NewProvider(cfg)

	logger := ini.logger
	if logger == nil {
		logger = NewLogger(cfg.Log)
	}

	var closers []server.Closer

	pool := ini.pool
	if pool == nil {
		pool, err = NewZombiezenPool(cfg.DbFile)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, server.Closer{Name: "database", Close: func(context.Context) error {
			return pool.Close()
		}})
	}
	// Closes what was opened so far when a later step fails.
	fail := func(err error) (*core.App, *server.Server, error) {
		for _, c := range closers {
			_ = c.Close(context.Background())
		}
		return nil, nil, err
	}

	store, err := zombiezen.New(pool)
	if err != nil {
		return fail(err)
	}
	if err := store.Migrate(ctx); err != nil {
		return fail(fmt.Errorf("failed to migrate %s: %w", cfg.DbFile, err))
	}

	mailer := ini.mailer
	if mailer == nil {
		m, err := mail.New(provider)
		if err != nil {
			return fail(err)
		}
		mailer = m
		if !cfg.Smtp.Enabled {
			logger.Warn("smtp disabled, verification and recovery mails will fail")
		}
	}

	cache, err := ristretto.New[any](cacheLevel)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, server.Closer{Name: "cache", Close: func(context.Context) error {
		cache.Close()
		return nil
	}})

	coreOpts := []core.Option{
		core.WithConfigProvider(provider),
		core.WithDbAuth(store),
		core.WithMailer(mailer),
		core.WithCache(cache),
		core.WithRouter(httprouter.New(core.NotFoundHandler(), core.MethodNotAllowedHandler())),
		core.WithLogger(logger),
	}

	switch {
	case ini.avatarStore != nil:
		coreOpts = append(coreOpts, core.WithAvatarStore(ini.avatarStore))
	case cfg.Avatar.S3.Bucket != "":
		avatars, err := s3.New(ctx, cfg.Avatar.S3)
		if err != nil {
			return fail(err)
		}
		coreOpts = append(coreOpts, core.WithAvatarStore(avatars))
	default:
		logger.Warn("no avatar bucket configured, avatar uploads are disabled")
	}

	if cfg.Metrics.Enabled {
		coreOpts = append(coreOpts, core.WithMetrics(metrics.New()))
	}

	if cfg.BlockIp.Enabled {
		b := cfg.BlockIp
		coreOpts = append(coreOpts, core.WithIPSketch(topk.New(topk.SketchParams{
			K:               b.K,
			WindowSize:      b.WindowSize,
			Width:           b.Width,
			Depth:           b.Depth,
			TickSize:        b.TickSize,
			MaxSharePercent: b.MaxSharePercent,
			ActivationRPS:   b.ActivationRPS,
		})))
	}

	if cfg.Notifier.Discord.Enabled {
		discordNotifier, err := discord.New(cfg.Notifier.Discord, logger)
		if err != nil {
			return fail(err)
		}
		coreOpts = append(coreOpts, core.WithNotifier(discordNotifier))
		closers = append(closers, server.Closer{Name: "discord", Close: discordNotifier.Close})
	}

	app, err := core.NewApp(coreOpts...)
	if err != nil {
		return fail(err)
	}

	route(cfg, app)

	srv := server.NewServer(provider, handler(app), logger, reloadFunc(provider, logger))
	for _, c := range closers {
		srv.AddCloser(c)
	}

	return app, srv, nil
}

// reloadFunc re-reads the configuration file. Routes and the
// collaborators built at startup keep their settings; handlers pick up
// everything they read per request.
func reloadFunc(provider *config.Provider, logger *slog.Logger) func() error {
	return func() error {
		cfg, err := config.Reload(provider.Get(), logger)
		if err != nil {
			return err
		}
		provider.Update(cfg)
		return nil
	}
}
