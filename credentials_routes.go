package credentials

import (
	"net/http"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/core"
	"github.com/aquanorma/credentials/router"
)

// route registers the configured endpoints. Profile endpoints go through
// RequireAuth.
func route(cfg *config.Config, ap *core.App) {
	rt := ap.Router()
	auth := func(h http.HandlerFunc) http.Handler {
		return router.NewChain(h).WithMiddleware(ap.RequireAuth).Handler()
	}

	rt.HandleFunc(cfg.Endpoints.Signup, ap.SignupHandler)
	rt.HandleFunc(cfg.Endpoints.Verify, ap.VerifyHandler)
	rt.HandleFunc(cfg.Endpoints.ResendVerify, ap.ResendVerifyHandler)
	rt.HandleFunc(cfg.Endpoints.Signin, ap.SigninHandler)
	rt.HandleFunc(cfg.Endpoints.ForgetPassword, ap.ForgetPasswordHandler)
	rt.HandleFunc(cfg.Endpoints.Recovery, ap.RecoveryHandler)

	rt.Handle(cfg.Endpoints.Current, auth(ap.CurrentHandler))
	rt.Handle(cfg.Endpoints.Logout, auth(ap.LogoutHandler))
	rt.Handle(cfg.Endpoints.DailyNorma, auth(ap.DailyNormaHandler))
	rt.Handle(cfg.Endpoints.Settings, auth(ap.SettingsHandler))
	rt.Handle(cfg.Endpoints.Avatar, auth(ap.AvatarHandler))

	if cfg.Metrics.Enabled {
		rt.HandleFunc(cfg.Metrics.Endpoint, ap.MetricsHandler)
	}
}

// handler is the server's root handler: request log, ip blocking, metrics,
// then the router.
func handler(ap *core.App) http.Handler {
	return router.NewChain(ap.Router()).
		WithMiddleware(ap.RequestLog, ap.BlockIP, ap.RecordMetrics).
		Handler()
}
