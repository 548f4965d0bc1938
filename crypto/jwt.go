package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256 keys
	// to provide sufficient security against brute force attacks.
	MinKeyLength = 32

	// ClaimUserID is the JWT claim holding the user id.
	ClaimUserID = "id"
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
	// ErrInvalidClaimFormat is returned when a required claim is missing
	ErrInvalidClaimFormat = errors.New("invalid claim format")
)

// SessionClaims are the claims of a session token. The user id is the only
// application claim.
type SessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Validate implements jwt.ClaimsValidator. The parser has already checked
// exp and iat; this enforces presence of the application claims.
func (c SessionClaims) Validate() error {
	if c.IssuedAt == nil {
		return fmt.Errorf("%w: missing iat claim", ErrInvalidClaimFormat)
	}
	if c.UserID == "" {
		return fmt.Errorf("%w: missing id claim", ErrInvalidClaimFormat)
	}
	return nil
}

// NewJwtSigningKeyWithCredentials creates a JWT signing key using HMAC-SHA256.
//
// It derives a unique key by combining user-specific data (email, passwordHash)
// with the server secret. Tokens are invalidated when the user's email or
// password changes, or globally by rotating the secret.
//
// A null byte delimits email and passwordHash to avoid collisions.
func NewJwtSigningKeyWithCredentials(email, passwordHash, secret string) ([]byte, error) {
	if email == "" || passwordHash == "" {
		return nil, fmt.Errorf("%w: empty credentials", ErrJwtInvalidSecretLength)
	}

	if len(secret) < MinKeyLength {
		return nil, ErrJwtInvalidSecretLength
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(email))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))

	return h.Sum(nil), nil
}

// NewJwtSessionToken issues a session token for userID valid for duration,
// signed with a key bound to the user's email and password hash.
func NewJwtSessionToken(userID, email, passwordHash, secret string, duration time.Duration) (string, error) {
	signingKey, err := NewJwtSigningKeyWithCredentials(email, passwordHash, secret)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseJwtUnverified decodes the claims without checking the signature. It
// is only used to find which user's key must verify the token.
func ParseJwtUnverified(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing id claim", ErrJwtInvalidToken)
	}
	return claims, nil
}

// ParseJwt verifies the token signature with verificationKey, validates exp,
// iat and the session claims, and returns the claims.
func ParseJwt(token string, verificationKey []byte) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithExpirationRequired(), jwt.WithIssuedAt())

	claims := &SessionClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			// jwt wraps this error with jwt.ErrTokenUnverifiable
			return nil, ErrJwtInvalidSigningMethod
		}
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, ErrJwtInvalidSigningMethod) {
			return nil, ErrJwtInvalidSigningMethod
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrJwtInvalidToken
	}

	return claims, nil
}
