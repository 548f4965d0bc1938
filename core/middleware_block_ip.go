package core

import (
	"context"
	"net/http"

	"github.com/aquanorma/credentials/notify"
)

const blockKeyPrefix = "block:"

func (a *App) isBlocked(ip string) bool {
	_, found := a.Cache().Get(blockKeyPrefix + ip)
	return found
}

func (a *App) blockIP(ctx context.Context, ip string) {
	ttl := a.Config().BlockIp.Duration.Duration
	if !a.Cache().SetWithTTL(blockKeyPrefix+ip, true, 1, ttl) {
		a.Logger().Error("failed to block ip", "ip", ip)
		return
	}
	a.Logger().Warn("ip blocked", "ip", ip, "duration", ttl)
	a.notify(ctx, notify.Notification{
		Type:    notify.Alarm,
		Source:  "block_ip",
		Message: "ip blocked",
		Fields:  map[string]any{"ip": ip, "duration": ttl.String()},
	})
}

// BlockIP answers 429 to blocked clients and feeds every other request to
// the ip sketch, blocking the heavy hitters it reports. Without a sketch
// or with blocking disabled in the config it only passes through.
func (a *App) BlockIP(next http.Handler) http.Handler {
	if a.ipSketch == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := a.Config()
		if !cfg.BlockIp.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r, cfg.Server.ClientIpProxyHeader)
		if a.isBlocked(ip) {
			writeJsonError(w, errorIpBlocked)
			return
		}

		for _, heavy := range a.ipSketch.ProcessTick(ip) {
			a.blockIP(r.Context(), heavy)
		}

		next.ServeHTTP(w, r)
	})
}
