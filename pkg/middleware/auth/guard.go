package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// Viewer is what the guard needs to know about the current request.
type Viewer interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

type ViewerFunc func(c echo.Context) Viewer

type ValidatorFunc func(v Viewer) error

var (
	errLoginRequired = echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
	errAdminRequired = echo.NewHTTPError(http.StatusForbidden, "admin access required")
)

// Guard gates views before they render. Browsers are redirected to the login
// page; JSON clients get the status code instead.
type Guard struct {
	LoginPath string
	Viewer    ViewerFunc
}

func NewGuard(loginPath string, viewer ViewerFunc) *Guard {
	return &Guard{LoginPath: loginPath, Viewer: viewer}
}

func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireWithValidator(next, nil)
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireWithValidator(next, func(v Viewer) error {
		if !v.IsAdmin() {
			return errAdminRequired
		}
		return nil
	})
}

func (g *Guard) requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := g.Viewer(c)

		if !v.IsAuthenticated() {
			return g.deny(c, errLoginRequired)
		}
		if validator != nil {
			if err := validator(v); err != nil {
				return g.deny(c, err)
			}
		}
		return next(c)
	}
}

func (g *Guard) deny(c echo.Context, err error) error {
	if wantsJSON(c.Request()) {
		return err
	}
	target := g.LoginPath
	if next := c.Request().URL.RequestURI(); next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	// 303 so the browser replaces the guarded navigation with a GET of the login page.
	return c.Redirect(http.StatusSeeOther, target)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
