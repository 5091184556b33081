package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when an activation token fails verification for
// any reason, including expiry. Callers should not distinguish further.
var ErrInvalidToken = errors.New("auth: invalid token")

const activationPurpose = "activate"

// Tokens issues and verifies account-activation tokens. Tokens are signed
// HS256 JWTs carrying the user ID as subject.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token issuer. ttl defaults to one hour when zero.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// GenerateActivation returns a signed activation token for the user.
func (t *Tokens) GenerateActivation(userID int64) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Audience:  jwt.ClaimStrings{activationPurpose},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign activation token: %w", err)
	}
	return signed, nil
}

// VerifyActivation checks the token signature, audience, and expiry, and
// returns the user ID it was issued for. Any failure yields ErrInvalidToken.
func (t *Tokens) VerifyActivation(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", tok.Method.Alg())
			}
			return t.secret, nil
		},
		jwt.WithAudience(activationPurpose),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
