package core

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxJsonBodySize bounds the JSON request bodies of every endpoint.
const maxJsonBodySize = 1 << 20

// decodeJson reads a single JSON object from the request body.
func decodeJson(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJsonBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

// verifyURL is the absolute link mailed for email verification.
func (a *App) verifyURL(token string) string {
	cfg := a.Config()
	return strings.TrimRight(cfg.PublicURL, "/") + cfg.Endpoints.VerifyPath() + url.PathEscape(token)
}

const (
	cooldownVerification   = "verify:"
	cooldownPasswordForget = "forget:"
)

// inCooldown reports whether an email of the given kind was sent to email
// within the configured cooldown.
func (a *App) inCooldown(kind, email string) bool {
	_, found := a.Cache().Get(kind + email)
	return found
}

// startCooldown blocks further emails of kind to email for ttl. A zero ttl
// disables the cooldown.
func (a *App) startCooldown(kind, email string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	a.Cache().SetWithTTL(kind+email, time.Now(), 1, ttl)
}
