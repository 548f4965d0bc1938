package core

import (
	"context"
	"errors"
	"net/http"

	"github.com/aquanorma/credentials/db"
	"github.com/aquanorma/credentials/metrics"
)

// VerifyHandler consumes a verification token and marks its user verified.
// Endpoint: GET /api/users/verify/:verificationToken
// Authenticated: No
func (a *App) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	token := a.Router().Param(r, "verificationToken")
	if token == "" {
		writeJsonError(w, errorUserNotFound)
		return
	}

	user, err := a.DbAuth().GetUserByVerificationToken(token)
	if err != nil {
		a.Logger().Error("failed to look up verification token", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	err = a.DbAuth().VerifyEmail(user.ID, token)
	if errors.Is(err, db.ErrUserNotFound) {
		// A concurrent verify consumed the token first.
		writeJsonError(w, errorUserNotFound)
		return
	}
	if err != nil {
		a.Logger().Error("failed to verify email", "user_id", user.ID, "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonOk(w, okEmailVerified)
}

// ResendVerifyHandler mails the stored verification link again.
// Endpoint: POST /api/users/verify
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) ResendVerifyHandler(w http.ResponseWriter, r *http.Request) {
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
		writeJsonError(w, errorEmailNotFound)
		return
	}
	if user.Verified {
		writeJsonError(w, errorAlreadyVerified)
		return
	}
	if user.VerificationToken == "" {
		a.Logger().Error("unverified user without verification token", "user_id", user.ID)
		writeJsonError(w, errorInternal)
		return
	}

	if a.inCooldown(cooldownVerification, user.Email) {
		writeJsonError(w, errorTooManyRequests)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	err = a.Mailer().SendVerificationEmail(ctx, user.Email, a.verifyURL(user.VerificationToken))
	a.Metrics().RecordMail(metrics.MailVerification, err)
	if err != nil {
		a.Logger().Error("failed to resend verification email", "user_id", user.ID, "error", err)
		a.alarm(ctx, "mail", "verification email not delivered", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}
	a.startCooldown(cooldownVerification, user.Email, a.Config().RateLimits.EmailVerificationCooldown.Duration)

	writeJsonOk(w, okVerificationSent)
}
