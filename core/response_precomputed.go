package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkEmailVerified    = "ok_email_verified"
	CodeOkVerificationSent = "ok_verification_sent"
	CodeOkPasswordRecovery = "ok_password_recovery"

	// errors
	CodeErrorInvalidRequest       = "err_invalid_input"
	CodeErrorInvalidContentType   = "err_invalid_content_type"
	CodeErrorMissingFields        = "err_missing_fields"
	CodeErrorInvalidEmail         = "err_invalid_email"
	CodeErrorInvalidPassword      = "err_invalid_password"
	CodeErrorInvalidName          = "err_invalid_name"
	CodeErrorInvalidGender        = "err_invalid_gender"
	CodeErrorInvalidDailyNorma    = "err_invalid_daily_norma"
	CodeErrorMissingDailyNorma    = "err_missing_daily_norma"
	CodeErrorEmailConflict        = "err_email_conflict"
	CodeErrorUserNotFound         = "err_user_not_found"
	CodeErrorEmailNotFound        = "err_email_not_found"
	CodeErrorUserNotRegistered    = "err_user_not_registered"
	CodeErrorAlreadyVerified      = "err_already_verified"
	CodeErrorInvalidCredentials   = "err_invalid_credentials"
	CodeErrorPasswordWrong        = "err_password_wrong"
	CodeErrorEmailUnverified      = "err_email_unverified"
	CodeErrorNoFile               = "err_no_file"
	CodeErrorFileTooLarge         = "err_file_too_large"
	CodeErrorTooManyRequests      = "err_too_many_requests"
	CodeErrorIpBlocked            = "err_ip_blocked"
	CodeErrorServiceUnavailable   = "err_service_unavailable"
	CodeErrorAuthDatabaseError    = "err_auth_database_error"
	CodeErrorTokenGeneration      = "err_token_generation"
	CodeErrorInternal             = "err_internal"
	CodeErrorNoAuthHeader         = "err_no_auth_header"
	CodeErrorInvalidTokenFormat   = "err_invalid_token_format"
	CodeErrorJwtInvalidSignMethod = "err_invalid_sign_method"
	CodeErrorJwtTokenExpired      = "err_token_expired"
	CodeErrorJwtInvalidToken      = "err_invalid_token"
	CodeErrorNotFound             = "err_not_found"
	CodeErrorMethodNotAllowed     = "err_method_not_allowed"
)

// precomputeBasicResponse marshals the body once at package init so
// handlers only copy bytes to the writer.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorInvalidContentType   = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorMissingFields        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidEmail         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidEmail, "Email is not valid")
	errorInvalidPassword      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidPassword, "Password must be between 1 and 72 bytes")
	errorInvalidName          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidName, "Name is not valid")
	errorInvalidGender        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidGender, "Gender is not valid")
	errorInvalidDailyNorma    = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidDailyNorma, "Daily norma is out of range")
	errorMissingDailyNorma    = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingDailyNorma, "Enter your dailyNorma")
	errorEmailConflict        = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "Email in use")
	errorUserNotFound         = precomputeBasicResponse(http.StatusNotFound, CodeErrorUserNotFound, "User not found")
	errorEmailNotFound        = precomputeBasicResponse(http.StatusNotFound, CodeErrorEmailNotFound, "Email not found")
	errorUserNotRegistered    = precomputeBasicResponse(http.StatusNotFound, CodeErrorUserNotRegistered, "User not registered")
	errorAlreadyVerified      = precomputeBasicResponse(http.StatusConflict, CodeErrorAlreadyVerified, "Verification has already been passed")
	errorInvalidCredentials   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Email or password is wrong")
	errorPasswordWrong        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordWrong, "Password is wrong")
	errorEmailUnverified      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorEmailUnverified, "Email is wrong")
	errorNoFile               = precomputeBasicResponse(http.StatusBadRequest, CodeErrorNoFile, "No file")
	errorFileTooLarge         = precomputeBasicResponse(http.StatusRequestEntityTooLarge, CodeErrorFileTooLarge, "File is too large")
	errorTooManyRequests      = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorTooManyRequests, "Too many requests, please try again later")
	errorIpBlocked            = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorIpBlocked, "Too many requests from this address")
	errorServiceUnavailable   = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorAuthDatabaseError    = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")
	errorTokenGeneration      = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorInternal             = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorInternal, "Internal server error")
	errorNoAuthHeader         = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorJwtInvalidSignMethod = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidSignMethod, "Invalid JWT signing method")
	errorJwtTokenExpired      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtTokenExpired, "Authentication token has expired")
	errorJwtInvalidToken      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidToken, "Not authorized")
	errorNotFound             = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "Requested resource not found")
	errorMethodNotAllowed     = precomputeBasicResponse(http.StatusMethodNotAllowed, CodeErrorMethodNotAllowed, "Method not allowed")

	// oks
	okEmailVerified    = precomputeBasicResponse(http.StatusOK, CodeOkEmailVerified, "Verification successful")
	okVerificationSent = precomputeBasicResponse(http.StatusOK, CodeOkVerificationSent, "Email send success")
	okPasswordRecovery = precomputeBasicResponse(http.StatusOK, CodeOkPasswordRecovery, "Password recovery")
)

// For successful precomputed responses
func writeJsonOk(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

// writeJsonError writes a precomputed JSON error response
func writeJsonError(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

// NotFoundHandler and MethodNotAllowedHandler give the router JSON answers.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJsonError(w, errorNotFound)
	})
}

func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJsonError(w, errorMethodNotAllowed)
	})
}
