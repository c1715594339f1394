package session

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestDecodeToken_ReadsPayload(t *testing.T) {
	t.Parallel()

	exp := fixedNow.Add(time.Hour)
	raw := signToken(t, jwt.MapClaims{
		"user_id":  "64a1b2c3",
		"email":    "ava@example.com",
		"is_admin": true,
		"exp":      exp.Unix(),
	})

	claims, err := DecodeToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "64a1b2c3", claims.UserID)
	assert.Equal(t, "ava@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeToken_NumericUserID(t *testing.T) {
	t.Parallel()

	claims, err := DecodeToken(signToken(t, jwt.MapClaims{"user_id": 42, "email": "a@b.c"}))
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.False(t, claims.HasExpiry())
}

func TestDecodeToken_MalformedInputNeverPanics(t *testing.T) {
	t.Parallel()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "no dots", raw: "definitely-not-a-token"},
		{name: "two segments", raw: header + "." + enc(`{"user_id":"1"}`)},
		{name: "four segments", raw: header + "." + enc(`{}`) + ".sig.extra"},
		{name: "invalid base64", raw: header + ".@@@###.sig"},
		{name: "payload not json", raw: header + "." + enc("hello") + ".sig"},
		{name: "payload is array", raw: header + "." + enc(`[1,2,3]`) + ".sig"},
		{name: "exp is text", raw: header + "." + enc(`{"exp":"tomorrow"}`) + ".sig"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.NotPanics(t, func() {
				claims, err := DecodeToken(tt.raw)
				assert.Nil(t, claims)
				assert.ErrorIs(t, err, ErrMalformedToken)
			})
		})
	}
}

func TestDecodeToken_IgnoresHeaderAndSignature(t *testing.T) {
	t.Parallel()

	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	payload := enc(`{"user_id":"u5","email":"u5@example.com","is_admin":true}`)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no alg", header: enc(`{"typ":"JWT"}`)},
		{name: "unknown alg", header: enc(`{"alg":"XYZ"}`)},
		{name: "not base64", header: "%%%"},
		{name: "empty", header: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := DecodeToken(tt.header + "." + payload + ".")
			require.NoError(t, err)
			assert.Equal(t, "u5", claims.UserID)
			assert.True(t, claims.IsAdmin)
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	t.Parallel()

	t.Run("no token", func(t *testing.T) {
		t.Parallel()
		assert.False(t, New(NewMemoryStore(""), clock).IsAuthenticated())
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore("garbage")
		assert.False(t, New(store, clock).IsAuthenticated())
	})

	t.Run("future exp", func(t *testing.T) {
		t.Parallel()
		tok := signToken(t, jwt.MapClaims{"user_id": "u1", "exp": fixedNow.Add(time.Minute).Unix()})
		store := NewMemoryStore(tok)

		assert.True(t, New(store, clock).IsAuthenticated())
		got, ok := store.Token()
		assert.True(t, ok)
		assert.Equal(t, tok, got)
	})

	t.Run("past exp clears stored token", func(t *testing.T) {
		t.Parallel()
		tok := signToken(t, jwt.MapClaims{"user_id": "u1", "exp": fixedNow.Add(-time.Second).Unix()})
		store := NewMemoryStore(tok)

		assert.False(t, New(store, clock).IsAuthenticated())
		_, ok := store.Token()
		assert.False(t, ok)
	})

	t.Run("no exp never expires", func(t *testing.T) {
		t.Parallel()
		tok := signToken(t, jwt.MapClaims{"user_id": "u1"})
		assert.True(t, New(NewMemoryStore(tok), clock).IsAuthenticated())
	})
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   bool
	}{
		{name: "explicit true", claims: jwt.MapClaims{"user_id": "u", "is_admin": true}, want: true},
		{name: "explicit false", claims: jwt.MapClaims{"user_id": "u", "is_admin": false}},
		{name: "missing flag", claims: jwt.MapClaims{"user_id": "u"}},
		{name: "string true", claims: jwt.MapClaims{"user_id": "u", "is_admin": "true"}},
		{name: "numeric one", claims: jwt.MapClaims{"user_id": "u", "is_admin": 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := New(NewMemoryStore(signToken(t, tt.claims)), clock)
			assert.Equal(t, tt.want, sess.IsAdmin())
		})
	}

	assert.False(t, New(NewMemoryStore(""), clock).IsAdmin())
	assert.False(t, New(NewMemoryStore("x.y.z"), clock).IsAdmin())
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	_, ok := New(NewMemoryStore(""), clock).CurrentUser()
	assert.False(t, ok)

	tok := signToken(t, jwt.MapClaims{"user_id": "u7", "email": "u7@example.com"})
	user, ok := New(NewMemoryStore(tok), clock).CurrentUser()
	require.True(t, ok)
	assert.Equal(t, &User{UserID: "u7", Email: "u7@example.com", IsAdmin: false}, user)
}

func TestLoginLogout(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore("")
	sess := New(store, clock)

	sess.Login(signToken(t, jwt.MapClaims{"user_id": "u1", "is_admin": true}))
	assert.True(t, sess.IsAuthenticated())
	assert.True(t, sess.IsAdmin())

	sess.Logout()
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsAdmin())
}

func TestCookieStore(t *testing.T) {
	t.Parallel()

	e := echo.New()
	tok := signToken(t, jwt.MapClaims{"user_id": "u1", "exp": fixedNow.Add(-time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenKey, Value: tok})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	store := NewCookieStore(c, CookieConfig{})
	got, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)

	sess := New(store, clock)
	assert.False(t, sess.IsAuthenticated())

	_, ok = store.Token()
	assert.False(t, ok, "cleared token must not be readable later in the same request")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenKey, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

func TestMiddleware_AttachesSession(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Session
	h := Middleware(CookieConfig{}, clock)(func(c echo.Context) error {
		seen = FromContext(c)
		return nil
	})
	require.NoError(t, h(c))
	require.NotNil(t, seen)
	assert.False(t, seen.IsAuthenticated())
}
