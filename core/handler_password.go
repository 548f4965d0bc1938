package core

import (
	"context"
	"net/http"

	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/metrics"
)

// ForgetPasswordHandler replaces the password of a registered user with a
// generated one and mails it in plaintext. The new hash is stored only
// after the mail is accepted, so a failed send leaves the old password.
// Endpoint: POST /api/users/forget-password
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) ForgetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJson(w, r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidEmail)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to look up email", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotRegistered)
		return
	}

	if a.inCooldown(cooldownPasswordForget, user.Email) {
		writeJsonError(w, errorTooManyRequests)
		return
	}

	password := crypto.NewRecoveryPassword()
	hash, err := crypto.GenerateHash(password)
	if err != nil {
		writeJsonError(w, errorInternal)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	err = a.Mailer().SendRecoveryPassword(ctx, user.Email, password)
	a.Metrics().RecordMail(metrics.MailRecovery, err)
	if err != nil {
		a.Logger().Error("failed to send recovery password", "user_id", user.ID, "error", err)
		a.alarm(ctx, "mail", "recovery password not delivered", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	// No cooldown when the write fails: the mailed password never applied
	// and the user must be able to ask again.
	if err := a.DbAuth().UpdatePassword(user.ID, hash); err != nil {
		a.Logger().Error("recovery password mailed but not applied", "user_id", user.ID, "error", err)
		a.writeUpdateError(w, user.ID, err)
		return
	}
	a.startCooldown(cooldownPasswordForget, user.Email, a.Config().RateLimits.PasswordForgetCooldown.Duration)
	// The old session key died with the old hash.
	if err := a.DbAuth().UpdateToken(user.ID, ""); err != nil {
		a.Logger().Warn("failed to clear session token after password recovery", "user_id", user.ID, "error", err)
	}

	writeJsonOk(w, okPasswordRecovery)
}

// RecoveryHandler sets a new password for a verified user identified by
// email. repeatPassword is accepted but not compared with newPassword.
// Endpoint: POST /api/users/recovery
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) RecoveryHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email          string `json:"email"`
		NewPassword    string `json:"newPassword"`
		RepeatPassword string `json:"repeatPassword"`
	}
	if err := decodeJson(w, r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.NewPassword == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		writeJsonError(w, errorInvalidPassword)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to look up email", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorEmailNotFound)
		return
	}
	if !user.Verified {
		writeJsonError(w, errorEmailUnverified)
		return
	}

	hash, err := crypto.GenerateHash(req.NewPassword)
	if err != nil {
		writeJsonError(w, errorInternal)
		return
	}
	if err := a.DbAuth().UpdatePassword(user.ID, hash); err != nil {
		a.writeUpdateError(w, user.ID, err)
		return
	}
	if err := a.DbAuth().UpdateToken(user.ID, ""); err != nil {
		a.Logger().Warn("failed to clear session token after password recovery", "user_id", user.ID, "error", err)
	}

	writeJsonOk(w, okPasswordRecovery)
}
