package core

import (
	"net/http"

	"github.com/aquanorma/credentials/crypto"
)

var checkPassword = crypto.CheckPassword

type signinResponse struct {
	Token     string      `json:"token"`
	User      userProfile `json:"user"`
	AvatarURL string      `json:"avatarUrl"`
}

// SigninHandler issues a session token to a verified user. Unknown email,
// unverified account and wrong password share one response.
// Endpoint: POST /api/users/signin
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) SigninHandler(w http.ResponseWriter, r *http.Request) {
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

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to look up email", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	// Missing and unverified accounts still pay for a bcrypt comparison.
	hash := crypto.DummyHash()
	if user != nil && user.Verified {
		hash = user.Password
	}
	match := checkPassword(req.Password, hash)
	if user == nil || !user.Verified || !match {
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	cfg := a.Config()
	token, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		a.Logger().Error("failed to issue session token", "user_id", user.ID, "error", err)
		writeJsonError(w, errorTokenGeneration)
		return
	}

	if err := a.DbAuth().UpdateToken(user.ID, token); err != nil {
		a.Logger().Error("failed to store session token", "user_id", user.ID, "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJson(w, http.StatusOK, signinResponse{
		Token: token,
		User: userProfile{
			Email:      user.Email,
			Name:       user.Name,
			DailyNorma: user.DailyNorma,
			Gender:     user.Gender,
		},
		AvatarURL: user.AvatarURL,
	})
}
