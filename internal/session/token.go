package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for any credential whose payload cannot be read.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the payload the backend puts into an access token.
// The signature is never checked here: the backend re-verifies every privileged call.
type Claims struct {
	UserID    string
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carried an exp claim.
func (c *Claims) HasExpiry() bool {
	return !c.ExpiresAt.IsZero()
}

// ExpiredAt compares at millisecond precision, the same resolution the browser used.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return c.HasExpiry() && c.ExpiresAt.UnixMilli() < now.UnixMilli()
}

var unverified = jwt.NewParser()

// DecodeToken reads the middle segment of a credential without verifying it.
// The header and signature segments are not inspected.
func DecodeToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty credential: %w", ErrMalformedToken)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: want 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	payload, err := unverified.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	mc := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{}

	switch v := mc["user_id"].(type) {
	case string:
		claims.UserID = v
	case float64:
		claims.UserID = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if email, ok := mc["email"].(string); ok {
		claims.Email = email
	}
	if admin, ok := mc["is_admin"].(bool); ok {
		claims.IsAdmin = admin
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
