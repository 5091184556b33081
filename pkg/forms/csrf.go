package forms

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSRFFieldName is the hidden input name carrying the anti-forgery token.
const CSRFFieldName = "csrf_token"

var (
	// ErrTokenInvalid indicates a malformed or forged token.
	ErrTokenInvalid = errors.New("forms: csrf token invalid")
	// ErrTokenExpired indicates a well-formed token past its lifetime.
	ErrTokenExpired = errors.New("forms: csrf token expired")
)

// CSRF issues and verifies HMAC-signed anti-forgery tokens bound to a
// session identifier. Tokens are urlsafe base64 of "<unix-ts>.<mac>".
type CSRF struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCSRF builds a token signer. ttl <= 0 defaults to one hour.
func NewCSRF(secret []byte, ttl time.Duration) (*CSRF, error) {
	if len(secret) == 0 {
		return nil, errors.New("forms: csrf secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CSRF{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Token signs a fresh token for the given session identifier.
func (c *CSRF) Token(sessionID string) string {
	issued := strconv.FormatInt(c.now().Unix(), 10)
	mac := c.sign(sessionID, issued)
	return base64.RawURLEncoding.EncodeToString([]byte(issued + "." + mac))
}

// Verify checks a submitted token against the session identifier.
func (c *CSRF) Verify(sessionID, token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return ErrTokenInvalid
	}
	issued, mac, ok := strings.Cut(string(raw), ".")
	if !ok {
		return ErrTokenInvalid
	}
	if !hmac.Equal([]byte(mac), []byte(c.sign(sessionID, issued))) {
		return ErrTokenInvalid
	}
	issuedAt, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return ErrTokenInvalid
	}
	if c.now().After(time.Unix(issuedAt, 0).Add(c.ttl)) {
		return ErrTokenExpired
	}
	return nil
}

// HiddenField returns the hidden form field carrying a fresh token.
func (c *CSRF) HiddenField(sessionID string) *Field {
	return &Field{
		Name:  CSRFFieldName,
		Kind:  KindHidden,
		Value: c.Token(sessionID),
	}
}

func (c *CSRF) sign(sessionID, issued string) string {
	h := hmac.New(sha256.New, c.secret)
	fmt.Fprintf(h, "%s|%s", sessionID, issued)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
