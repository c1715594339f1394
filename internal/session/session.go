package session

import (
	"time"

	"github.com/labstack/echo/v4"
)

// User is the normalized view of the current viewer.
type User struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Session answers "who is viewing" from the stored credential alone, without
// a round trip to the backend.
type Session struct {
	store TokenStore
	now   func() time.Time
}

func New(store TokenStore, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{store: store, now: now}
}

func (s *Session) Token() (string, bool) {
	return s.store.Token()
}

func (s *Session) claims() (*Claims, bool) {
	raw, ok := s.store.Token()
	if !ok {
		return nil, false
	}
	claims, err := DecodeToken(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// IsAuthenticated drops an expired credential as a side effect.
func (s *Session) IsAuthenticated() bool {
	claims, ok := s.claims()
	if !ok {
		return false
	}
	if claims.ExpiredAt(s.now()) {
		s.store.ClearToken()
		return false
	}
	return true
}

// IsAdmin is true only for an explicit is_admin: true claim.
func (s *Session) IsAdmin() bool {
	claims, ok := s.claims()
	return ok && claims.IsAdmin
}

func (s *Session) CurrentUser() (*User, bool) {
	claims, ok := s.claims()
	if !ok {
		return nil, false
	}
	return &User{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, true
}

func (s *Session) Login(token string) {
	s.store.SetToken(token)
}

func (s *Session) Logout() {
	s.store.ClearToken()
}

const ctxSession = "session"

// Middleware attaches a cookie-backed Session to every request.
func Middleware(cfg CookieConfig, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxSession, New(NewCookieStore(c, cfg), now))
			return next(c)
		}
	}
}

// FromContext returns the request's session; requests that bypassed the
// middleware get an empty one.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(ctxSession).(*Session); ok && s != nil {
		return s
	}
	return New(NewMemoryStore(""), nil)
}
