package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	visitorCookie = "sf_visitor"
	ctxVisitor    = "visitor_id"
	visitorMaxAge = 365 * 24 * time.Hour
)

// VisitorMiddleware gives every browser a stable anonymous id that keys its
// wishlist and bag.
func VisitorMiddleware(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(visitorCookie); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     visitorCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(visitorMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(ctxVisitor, id)
			return next(c)
		}
	}
}

func VisitorID(c echo.Context) string {
	id, _ := c.Get(ctxVisitor).(string)
	return id
}
