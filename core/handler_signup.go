package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aquanorma/credentials/avatar"
	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/db"
	"github.com/aquanorma/credentials/metrics"
)

type signupResponse struct {
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// SignupHandler registers an unverified user and mails the verification link.
// Endpoint: POST /api/users/signup
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJson(w, r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidEmail)
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		writeJsonError(w, errorInvalidPassword)
		return
	}

	existing, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to look up email", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if existing != nil {
		writeJsonError(w, errorEmailConflict)
		return
	}

	hash, err := crypto.GenerateHash(req.Password)
	if err != nil {
		writeJsonError(w, errorInternal)
		return
	}

	cfg := a.Config()
	newUser := db.User{
		Email:             req.Email,
		Name:              fmt.Sprintf("User_%d", time.Now().UnixMilli()),
		Password:          hash,
		AvatarURL:         avatar.GravatarURL(req.Email, cfg.Avatar.GravatarSize, cfg.Avatar.GravatarRating, cfg.Avatar.GravatarDefault),
		VerificationToken: crypto.NewVerificationToken(),
	}

	created, err := a.DbAuth().CreateUser(newUser)
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorEmailConflict)
			return
		}
		a.Logger().Error("failed to create user", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// The account exists whatever the mail outcome; resendVerify recovers.
	ctx := context.WithoutCancel(r.Context())
	err = a.Mailer().SendVerificationEmail(ctx, created.Email, a.verifyURL(created.VerificationToken))
	a.Metrics().RecordMail(metrics.MailVerification, err)
	if err != nil {
		a.Logger().Warn("failed to send verification email", "user_id", created.ID, "error", err)
		a.alarm(ctx, "mail", "verification email not delivered", err)
	} else {
		a.startCooldown(cooldownVerification, created.Email, cfg.RateLimits.EmailVerificationCooldown.Duration)
	}

	writeJson(w, http.StatusCreated, signupResponse{
		Email:     created.Email,
		AvatarURL: created.AvatarURL,
	})
}
