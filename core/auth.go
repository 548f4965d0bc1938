package core

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/db"
)

// Authenticator resolves the session token of a request to its user.
type Authenticator interface {
	Authenticate(r *http.Request) (*db.User, error, jsonResponse)
}

// DefaultAuthenticator verifies the bearer token against the user's
// credential-bound key and requires it to be the user's current session
// token, so tokens issued before a logout or a later signin are rejected.
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	logger         *slog.Logger
	configProvider *config.Provider
}

func NewDefaultAuthenticator(dbAuth db.DbAuth, logger *slog.Logger, configProvider *config.Provider) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		logger:         logger,
		configProvider: configProvider,
	}
}

// Authenticate returns the authenticated user, or an error with the
// precomputed response to send. The error is deliberately generic.
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	errAuth := errors.New("Auth error")

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errAuth, errorNoAuthHeader
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return nil, errAuth, errorInvalidTokenFormat
	}

	// The unverified claims only tell whose key verifies the token.
	claims, err := crypto.ParseJwtUnverified(tokenString)
	if err != nil {
		return nil, errAuth, errorJwtInvalidToken
	}

	user, err := a.dbAuth.GetUserById(claims.UserID)
	if err != nil {
		a.logger.Error("failed to load user for authentication", "user_id", claims.UserID, "error", err)
		return nil, errAuth, errorAuthDatabaseError
	}
	if user == nil {
		return nil, errAuth, errorJwtInvalidToken
	}

	cfg := a.configProvider.Get()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, cfg.Jwt.AuthSecret)
	if err != nil {
		return nil, errAuth, errorTokenGeneration
	}

	if _, err := crypto.ParseJwt(tokenString, signingKey); err != nil {
		switch {
		case errors.Is(err, crypto.ErrJwtTokenExpired):
			return nil, errAuth, errorJwtTokenExpired
		case errors.Is(err, crypto.ErrJwtInvalidSigningMethod):
			return nil, errAuth, errorJwtInvalidSignMethod
		default:
			return nil, errAuth, errorJwtInvalidToken
		}
	}

	if subtle.ConstantTimeCompare([]byte(user.Token), []byte(tokenString)) != 1 {
		return nil, errAuth, errorJwtInvalidToken
	}

	return user, nil, jsonResponse{}
}
