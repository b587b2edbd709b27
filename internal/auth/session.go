package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token.
const CookieName = "prompt_library_session"

// ErrInvalidSession is returned for tokens that are malformed, forged or name no user.
var ErrInvalidSession = errors.New("invalid session")

// Sessions issues and verifies HS256 session tokens. Tokens carry the
// username as subject and do not expire.
type Sessions struct {
	secret []byte
	now    func() time.Time
}

// NewSessions creates a token issuer signing with secret.
func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue returns a signed token identifying username.
func (s *Sessions) Issue(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(s.now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns the username it carries.
func (s *Sessions) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
