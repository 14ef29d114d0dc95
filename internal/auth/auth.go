// Package auth resolves the caller's identity from a session token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrNoSession is returned when a token is missing, unknown or expired.
var ErrNoSession = errors.New("no valid session")

// Provider maps a session token to the owning user id.
type Provider interface {
	UserID(ctx context.Context, token string) (string, error)
}

const CookieName = "session"

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// CurrentUser resolves the user behind r. It returns ErrNoSession when the
// request carries no usable session.
func CurrentUser(r *http.Request, p Provider) (string, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return "", ErrNoSession
	}
	userID, err := p.UserID(r.Context(), token)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", ErrNoSession
	}
	return userID, nil
}

// Static is a fixed token table, used in development and tests.
type Static map[string]string

func (s Static) UserID(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", ErrNoSession
}
