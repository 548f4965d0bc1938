package core

import (
	"errors"
	"net/http"

	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/db"
)

type dailyNormaResponse struct {
	DailyNorma float64 `json:"dailyNorma"`
}

type settingsResponse struct {
	Email      string  `json:"email"`
	AvatarURL  string  `json:"avatarUrl"`
	Name       string  `json:"name"`
	Gender     string  `json:"gender"`
	DailyNorma float64 `json:"dailyNorma"`
	// Token is the new session token after a password change.
	Token string `json:"token,omitempty"`
}

// DailyNormaHandler sets the daily water norma of the authenticated user.
// Endpoint: PATCH /api/users/dailynorma
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) DailyNormaHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorJwtInvalidToken)
		return
	}
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		DailyNorma *float64 `json:"dailyNorma"`
	}
	if err := decodeJson(w, r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.DailyNorma == nil || *req.DailyNorma == 0 {
		writeJsonError(w, errorMissingDailyNorma)
		return
	}
	if err, resp := validateProfile(a.Config().Profile, nil, nil, req.DailyNorma); err != nil {
		writeJsonError(w, resp)
		return
	}

	updated, err := a.DbAuth().UpdateUser(user.ID, db.UserUpdate{DailyNorma: req.DailyNorma})
	if err != nil {
		a.writeUpdateError(w, user.ID, err)
		return
	}

	writeJson(w, http.StatusOK, dailyNormaResponse{DailyNorma: updated.DailyNorma})
}

// SettingsHandler updates profile fields and optionally the password. The
// current password must be given. Session keys derive from the password
// hash, so a password change rotates the session: the response carries
// the new token and the old one stops working.
// Endpoint: PATCH /api/users/settings
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorJwtInvalidToken)
		return
	}
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Password    string   `json:"password"`
		NewPassword *string  `json:"newPassword"`
		Name        *string  `json:"name"`
		Gender      *string  `json:"gender"`
		DailyNorma  *float64 `json:"dailyNorma"`
	}
	if err := decodeJson(w, r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if req.Password == "" || !crypto.CheckPassword(req.Password, user.Password) {
		writeJsonError(w, errorPasswordWrong)
		return
	}

	// An empty newPassword means no change, as an absent one does.
	if req.NewPassword != nil && *req.NewPassword == "" {
		req.NewPassword = nil
	}
	if req.NewPassword != nil {
		if err := ValidatePassword(*req.NewPassword); err != nil {
			writeJsonError(w, errorInvalidPassword)
			return
		}
	}
	if err, resp := validateProfile(a.Config().Profile, req.Name, req.Gender, req.DailyNorma); err != nil {
		writeJsonError(w, resp)
		return
	}

	update := db.UserUpdate{
		Name:       req.Name,
		Gender:     req.Gender,
		DailyNorma: req.DailyNorma,
	}
	if req.NewPassword != nil {
		hash, err := crypto.GenerateHash(*req.NewPassword)
		if err != nil {
			writeJsonError(w, errorInternal)
			return
		}
		update.Password = &hash
	}

	updated, err := a.DbAuth().UpdateUser(user.ID, update)
	if err != nil {
		a.writeUpdateError(w, user.ID, err)
		return
	}

	resp := settingsResponse{
		Email:      updated.Email,
		AvatarURL:  updated.AvatarURL,
		Name:       updated.Name,
		Gender:     updated.Gender,
		DailyNorma: updated.DailyNorma,
	}
	if update.Password != nil {
		resp.Token = a.rotateSession(user, *update.Password)
	}

	writeJson(w, http.StatusOK, resp)
}

// rotateSession issues and stores a session token signed with the key of
// passwordHash. On failure the user is logged out and "" is returned.
func (a *App) rotateSession(user *db.User, passwordHash string) string {
	cfg := a.Config()
	token, err := crypto.NewJwtSessionToken(user.ID, user.Email, passwordHash, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		a.Logger().Error("failed to issue session token after password change", "user_id", user.ID, "error", err)
		token = ""
	}
	if err := a.DbAuth().UpdateToken(user.ID, token); err != nil {
		a.Logger().Error("failed to store session token after password change", "user_id", user.ID, "error", err)
		return ""
	}
	return token
}

func (a *App) writeUpdateError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, db.ErrUserNotFound) {
		writeJsonError(w, errorUserNotFound)
		return
	}
	a.Logger().Error("failed to update user", "user_id", userID, "error", err)
	writeJsonError(w, errorAuthDatabaseError)
}
