// Package auth gates admin requests: credential check on login, token
// extraction and session validation everywhere else.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"coastline/api/internal/session"
)

// CookieName is the session cookie the admin pages set alongside the bearer
// header.
const CookieName = "adminSession"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Gateway validates the single configured admin identity and admits
// requests carrying a live session token. The credential is a shared
// plaintext pair; there is no per-user store and no hashing. That mirrors
// the deployed system and is a known weakness, not an oversight.
type Gateway struct {
	username      string
	password      string
	sessions      *session.Registry
	secureCookies bool
}

func NewGateway(username, password string, sessions *session.Registry, secureCookies bool) *Gateway {
	return &Gateway{
		username:      username,
		password:      password,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// Login checks the credential pair in constant time and mints a session on
// success. An empty configured password disables login entirely.
func (g *Gateway) Login(username, password string) (session.Session, error) {
	if g.password == "" {
		return session.Session{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password))
	if userOK&passOK != 1 {
		return session.Session{}, ErrInvalidCredentials
	}
	return g.sessions.Create(username), nil
}

// Authenticate admits a request carrying a valid token. Missing, unknown
// and expired tokens all collapse into ErrUnauthorized: callers learn
// nothing about why they were refused.
func (g *Gateway) Authenticate(r *http.Request) (session.Session, error) {
	token := RequestToken(r)
	if token == "" {
		return session.Session{}, ErrUnauthorized
	}
	s, err := g.sessions.Validate(token)
	if err != nil {
		return session.Session{}, ErrUnauthorized
	}
	return s, nil
}

// Logout destroys the request's session, if any, and expires the cookie.
func (g *Gateway) Logout(w http.ResponseWriter, r *http.Request) {
	if token := RequestToken(r); token != "" {
		g.sessions.Destroy(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetSessionCookie mirrors the bearer token into the admin cookie.
func (g *Gateway) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.Lifetime / time.Second),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequestToken extracts the session token from the Authorization header or,
// failing that, the admin cookie. The header wins when both are present.
func RequestToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
