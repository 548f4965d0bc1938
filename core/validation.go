package core

import (
	"errors"
	"mime"
	"net/http"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/crypto"
)

const (
	MimeTypeJSON          = "application/json"
	MimeTypeMultipartForm = "multipart/form-data"
)

// Validator defines an interface for request validation operations
type Validator interface {
	// ContentType checks if the request's Content-Type matches the allowed type
	ContentType(r *http.Request, allowedType string) (error, jsonResponse)
}

// DefaultValidator implements the Validator interface
type DefaultValidator struct{}

func NewValidator() Validator {
	return &DefaultValidator{}
}

// ContentType compares the media type of the request, ignoring parameters
// such as charset or boundary. Mismatches answer 415.
func (v *DefaultValidator) ContentType(r *http.Request, allowedType string) (error, jsonResponse) {
	errInvalidType := errors.New("Invalid content type")
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return errInvalidType, errorInvalidContentType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != allowedType {
		return errInvalidType, errorInvalidContentType
	}

	return nil, jsonResponse{}
}

var (
	errInvalidEmail    = errors.New("invalid email")
	errInvalidPassword = errors.New("invalid password")
)

// ValidateEmail accepts a bare RFC 5322 address, without display name.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the bcrypt input limit. Longer passwords would
// be truncated silently.
func ValidatePassword(password string) error {
	if password == "" || len(password) > crypto.MaxPasswordLength {
		return errInvalidPassword
	}
	return nil
}

// validateProfile checks the optional profile fields of an update against
// the configured limits. Nil fields are not checked.
func validateProfile(p config.Profile, name, gender *string, dailyNorma *float64) (error, jsonResponse) {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" || utf8.RuneCountInString(n) > p.MaxNameLength {
			return errors.New("invalid name"), errorInvalidName
		}
	}
	if gender != nil && !slices.Contains(p.Genders, *gender) {
		return errors.New("invalid gender"), errorInvalidGender
	}
	if dailyNorma != nil && (*dailyNorma <= 0 || *dailyNorma > p.MaxDailyNorma) {
		return errors.New("invalid daily norma"), errorInvalidDailyNorma
	}
	return nil, jsonResponse{}
}
