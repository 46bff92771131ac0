package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coastline/api/internal/session"
)

func newTestGateway() (*Gateway, *session.Registry) {
	reg := session.NewRegistry()
	return NewGateway("admin", "hunter2", reg, false), reg
}

func TestLoginWithConfiguredCredentials(t *testing.T) {
	g, reg := newTestGateway()

	s, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(s.Token) < 64 {
		t.Errorf("expected at least 32 bytes of entropy, got %d hex chars", len(s.Token))
	}
	if reg.Len() != 1 {
		t.Errorf("expected one session minted, got %d", reg.Len())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	g, reg := newTestGateway()

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"wrong", "hunter2"},
		{"", ""},
		{"admin", ""},
	}
	for _, tc := range cases {
		if _, err := g.Login(tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.user, tc.pass, err)
		}
	}
	if reg.Len() != 0 {
		t.Errorf("expected no sessions minted on failure, got %d", reg.Len())
	}
}

func TestLoginDisabledWithoutConfiguredPassword(t *testing.T) {
	g := NewGateway("admin", "", session.NewRegistry(), false)
	if _, err := g.Login("admin", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected login disabled, got %v", err)
	}
}

func TestAuthenticateAcceptsBearerAndCookie(t *testing.T) {
	g, _ := newTestGateway()
	s, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	bearer := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	bearer.Header.Set("Authorization", "Bearer "+s.Token)
	if _, err := g.Authenticate(bearer); err != nil {
		t.Errorf("bearer auth failed: %v", err)
	}

	cookie := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	cookie.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token})
	if _, err := g.Authenticate(cookie); err != nil {
		t.Errorf("cookie auth failed: %v", err)
	}
}

func TestAuthenticateHeaderBeatsCookie(t *testing.T) {
	g, _ := newTestGateway()
	s, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	r.Header.Set("Authorization", "Bearer not-a-real-token")
	r.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token})

	if _, err := g.Authenticate(r); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected header to take precedence and fail, got %v", err)
	}
}

func TestAuthenticateCollapsesFailureModes(t *testing.T) {
	g, _ := newTestGateway()

	missing := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	if _, err := g.Authenticate(missing); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("missing token: expected ErrUnauthorized, got %v", err)
	}

	bogus := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	bogus.Header.Set("Authorization", "Bearer bogus")
	if _, err := g.Authenticate(bogus); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown token: expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutDestroysSessionAndClearsCookie(t *testing.T) {
	g, reg := newTestGateway()
	s, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	r.Header.Set("Authorization", "Bearer "+s.Token)
	w := httptest.NewRecorder()

	g.Logout(w, r)

	if reg.Len() != 0 {
		t.Errorf("expected session destroyed, got %d", reg.Len())
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expiring %s cookie, got %v", CookieName, cookies)
	}

	// Logging out again with the same (now dead) token is fine.
	g.Logout(httptest.NewRecorder(), r)
}
