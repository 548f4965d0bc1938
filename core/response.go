package core

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   []byte
}

// JsonBasic contains the fields of every error and message response.
type JsonBasic struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJson encodes v as the response body. Used for the dynamic success
// bodies, whose shapes differ per endpoint.
func writeJson(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeJsonError(w, errorInternal)
		return
	}
	setHeaders(w, HeadersJson)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeNoContent answers 204 without a body.
func writeNoContent(w http.ResponseWriter) {
	setHeaders(w, HeadersJson)
	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// userProfile is the profile subset returned by signin.
type userProfile struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	DailyNorma float64 `json:"dailyNorma"`
	Gender     string  `json:"gender"`
}
