package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aquanorma/credentials/crypto"
	"github.com/aquanorma/credentials/db"
)

func authedJsonRequest(method, target, body string, user *db.User) *http.Request {
	req := newJsonRequest(method, target, body)
	return req.WithContext(withUser(req.Context(), user))
}

func TestDailyNormaHandler(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		want      jsonResponse
		wantNorma float64
	}{
		{name: "empty body object", body: `{}`, want: errorMissingDailyNorma},
		{name: "zero", body: `{"dailyNorma":0}`, want: errorMissingDailyNorma},
		{name: "negative", body: `{"dailyNorma":-1}`, want: errorInvalidDailyNorma},
		{name: "above max", body: `{"dailyNorma":16}`, want: errorInvalidDailyNorma},
		{name: "malformed", body: `{"dailyNorma":"two"}`, want: errorInvalidRequest},
		{name: "valid", body: `{"dailyNorma":2.5}`, wantNorma: 2.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestApp(t)
			user := verifiedUser(t, "secret")
			var got db.UserUpdate
			ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
				got = update
				u := *user
				u.DailyNorma = *update.DailyNorma
				return &u, nil
			}

			rr := httptest.NewRecorder()
			ta.DailyNormaHandler(rr, authedJsonRequest("PATCH", "/api/users/dailynorma", tc.body, user))

			if tc.wantNorma == 0 {
				assertResponse(t, rr, tc.want)
				if !got.IsEmpty() {
					t.Errorf("update written on failure: %+v", got)
				}
				return
			}

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}
			var body dailyNormaResponse
			decodeResponse(t, rr, &body)
			if body.DailyNorma != tc.wantNorma {
				t.Errorf("dailyNorma = %v, want %v", body.DailyNorma, tc.wantNorma)
			}
			// Only the allow-listed field is written.
			if got.Name != nil || got.Gender != nil || got.Password != nil {
				t.Errorf("update touched other fields: %+v", got)
			}
		})
	}
}

func TestSettingsHandler_Validation(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want jsonResponse
	}{
		{"missing password", `{"name":"Bob"}`, errorPasswordWrong},
		{"wrong password", `{"password":"nope","name":"Bob"}`, errorPasswordWrong},
		{"invalid gender", `{"password":"secret","gender":"robot"}`, errorInvalidGender},
		{"invalid daily norma", `{"password":"secret","dailyNorma":100}`, errorInvalidDailyNorma},
		{"new password too long", `{"password":"secret","newPassword":"` + strings.Repeat("p", 73) + `"}`, errorInvalidPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestApp(t)
			user := verifiedUser(t, "secret")
			ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
				t.Error("UpdateUser called on invalid settings")
				return user, nil
			}

			rr := httptest.NewRecorder()
			ta.SettingsHandler(rr, authedJsonRequest("PATCH", "/api/users/settings", tc.body, user))

			assertResponse(t, rr, tc.want)
		})
	}
}

func TestSettingsHandler_ProfileUpdate(t *testing.T) {
	ta := newTestApp(t)
	user := verifiedUser(t, "secret")
	var got db.UserUpdate
	ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
		got = update
		u := *user
		u.Name = *update.Name
		return &u, nil
	}
	ta.db.UpdateTokenFunc = func(userId, token string) error {
		t.Error("session cleared without a password change")
		return nil
	}

	rr := httptest.NewRecorder()
	ta.SettingsHandler(rr, authedJsonRequest("PATCH", "/api/users/settings", `{"password":"secret","name":"Bob","newPassword":""}`, user))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var body settingsResponse
	decodeResponse(t, rr, &body)
	if body.Name != "Bob" || body.Email != user.Email {
		t.Errorf("body = %+v", body)
	}
	if got.Password != nil || got.Gender != nil || got.DailyNorma != nil {
		t.Errorf("update wrote unrequested fields: %+v", got)
	}
}

// The caller stays signed in with the token returned by the password change.
func TestSettingsHandler_PasswordChange(t *testing.T) {
	ta := newTestApp(t)
	user := verifiedUser(t, "secret")
	cfg := ta.Config()
	oldToken, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	user.Token = oldToken

	// The store applies writes to user, as the database would.
	ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
		if update.Password != nil {
			user.Password = *update.Password
		}
		return user, nil
	}
	ta.db.UpdateTokenFunc = func(userId, token string) error {
		user.Token = token
		return nil
	}
	ta.db.GetUserByIdFunc = func(id string) (*db.User, error) {
		return user, nil
	}

	rr := httptest.NewRecorder()
	ta.SettingsHandler(rr, authedJsonRequest("PATCH", "/api/users/settings", `{"password":"secret","newPassword":"fresh"}`, user))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if !crypto.CheckPassword("fresh", user.Password) {
		t.Error("new password not stored as a hash")
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeResponse(t, rr, &body)
	if body.Token == "" || body.Token != user.Token {
		t.Fatalf("response token %q, stored token %q: want the same non-empty token", body.Token, user.Token)
	}

	bearer := func(token string) *http.Request {
		req := httptest.NewRequest("GET", "/api/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}
	if got, err, _ := ta.Auth().Authenticate(bearer(body.Token)); err != nil || got.ID != user.ID {
		t.Errorf("new token rejected: %v", err)
	}
	if _, err, _ := ta.Auth().Authenticate(bearer(oldToken)); err == nil {
		t.Error("old token still accepted after the password change")
	}
}

func TestSettingsHandler_ProfileOnlyKeepsSession(t *testing.T) {
	ta := newTestApp(t)
	user := verifiedUser(t, "secret")
	ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
		return user, nil
	}
	ta.db.UpdateTokenFunc = func(userId, token string) error {
		t.Error("session token written without a password change")
		return nil
	}

	rr := httptest.NewRecorder()
	ta.SettingsHandler(rr, authedJsonRequest("PATCH", "/api/users/settings", `{"password":"secret","name":"Bob"}`, user))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"token"`) {
		t.Errorf("body %s carries a token without a password change", rr.Body.String())
	}
}

func TestSettingsHandler_UserGone(t *testing.T) {
	ta := newTestApp(t)
	user := verifiedUser(t, "secret")
	ta.db.UpdateUserFunc = func(userId string, update db.UserUpdate) (*db.User, error) {
		return nil, db.ErrUserNotFound
	}

	rr := httptest.NewRecorder()
	ta.SettingsHandler(rr, authedJsonRequest("PATCH", "/api/users/settings", `{"password":"secret","name":"Bob"}`, user))

	assertResponse(t, rr, errorUserNotFound)
}

func TestWriteUpdateError(t *testing.T) {
	ta := newTestApp(t)
	rr := httptest.NewRecorder()
	ta.writeUpdateError(rr, "user-1", errors.New("locked"))
	assertResponse(t, rr, errorAuthDatabaseError)
}
