package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// TokenKey is the fixed name the credential is stored under.
const TokenKey = "access_token"

// TokenStore holds the bearer credential between requests.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string)
	ClearToken()
}

type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryStore) ClearToken() {
	s.SetToken("")
}

type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
}

// CookieStore keeps the credential in an HttpOnly cookie. Writes made during a
// request are visible to later reads within the same request.
type CookieStore struct {
	c       echo.Context
	cfg     CookieConfig
	pending *string
}

func NewCookieStore(c echo.Context, cfg CookieConfig) *CookieStore {
	if cfg.Name == "" {
		cfg.Name = TokenKey
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieStore{c: c, cfg: cfg}
}

func (s *CookieStore) Token() (string, bool) {
	if s.pending != nil {
		return *s.pending, *s.pending != ""
	}
	ck, err := s.c.Cookie(s.cfg.Name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (s *CookieStore) SetToken(token string) {
	s.pending = &token

	var exp time.Time
	if claims, err := DecodeToken(token); err == nil && claims.HasExpiry() {
		exp = claims.ExpiresAt
	}
	s.c.SetCookie(CreateCookie(s.cfg.Name, token, s.cfg.Path, exp, s.cfg.Secure))
}

func (s *CookieStore) ClearToken() {
	empty := ""
	s.pending = &empty
	s.c.SetCookie(DeleteCookie(s.cfg.Name, s.cfg.Path, s.cfg.Secure))
}

// CreateCookie builds an HttpOnly cookie; a zero expTime makes it a browser-session cookie.
func CreateCookie(name, value, path string, expTime time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
