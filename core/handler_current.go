package core

import (
	"net/http"
)

type currentResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	AvatarURL  string  `json:"avatarUrl"`
	Name       string  `json:"name"`
	Gender     string  `json:"gender"`
	DailyNorma float64 `json:"dailyNorma"`
}

// CurrentHandler returns the profile of the authenticated user.
// Endpoint: GET /api/users/current
// Authenticated: Yes
func (a *App) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorJwtInvalidToken)
		return
	}

	writeJson(w, http.StatusOK, currentResponse{
		ID:         user.ID,
		Email:      user.Email,
		AvatarURL:  user.AvatarURL,
		Name:       user.Name,
		Gender:     user.Gender,
		DailyNorma: user.DailyNorma,
	})
}

// LogoutHandler clears the stored session token, which revokes it.
// Endpoint: POST /api/users/logout
// Authenticated: Yes
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorJwtInvalidToken)
		return
	}

	if err := a.DbAuth().UpdateToken(user.ID, ""); err != nil {
		a.Logger().Error("failed to clear session token", "user_id", user.ID, "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeNoContent(w)
}
