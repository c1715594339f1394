package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/session"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
	"github.com/Skotchmaster/beads_storefront/pkg/middleware/csrf"
)

type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	IsAdmin       bool          `json:"is_admin"`
	User          *session.User `json:"user,omitempty"`
}

type loginResult struct {
	Notice   views.Notice  `json:"notice"`
	User     *session.User `json:"user,omitempty"`
	Redirect string        `json:"redirect"`
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req apiclient.LoginRequest
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("login_failed", "status", 400, "reason", "invalid form")
		return err
	}

	res, err := h.d.API.Login(ctx, req)
	if err != nil {
		// A 401 here is a wrong password, not an expired session.
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			l.Warn("login_failed", "status", apiErr.Status, "reason", apiErr.Message)
			return fail(c, apiErr.Status, apiclient.Message(err, "Login failed"))
		}
		return h.backendFailure(c, l, "login_failed", err, "Login failed")
	}

	s := session.FromContext(c)
	s.Login(res.AccessToken)
	user, ok := s.CurrentUser()
	if !ok {
		s.Logout()
		l.Error("login_failed", "status", 502, "reason", "backend issued an unreadable token")
		return fail(c, http.StatusBadGateway, "Login failed")
	}

	if _, err := csrf.Rotate(c); err != nil {
		l.Error("csrf_rotate_failed", "error", err)
	}
	h.publish(c, events.Event{Type: events.UserLoggedIn, UserID: user.UserID})
	l.Info("login_success", "user_id", user.UserID, "is_admin", user.IsAdmin)

	return c.JSON(http.StatusOK, loginResult{
		Notice:   views.Success("Login successful"),
		User:     user,
		Redirect: redirectAfterLogin(c.QueryParam("next"), user.IsAdmin),
	})
}

// redirectAfterLogin only follows local paths so next cannot bounce the
// visitor to another site.
func redirectAfterLogin(next string, admin bool) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	if admin {
		return "/admin/dashboard"
	}
	return "/"
}

func (h *Handler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req apiclient.RegisterRequest
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("signup_failed", "status", 400, "reason", "invalid form")
		return err
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		req.Phone = nil
	}

	if _, err := h.d.API.Register(ctx, req); err != nil {
		return h.backendFailure(c, l, "signup_failed", err, "Signup failed")
	}

	l.Info("signup_success")
	return notice(c, http.StatusCreated, views.Success("Account created. Please log in."))
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	userID := h.userID(c)
	session.FromContext(c).Logout()
	if err := h.d.Items.Drop(ctx, VisitorID(c)); err != nil {
		l.Error("logout_drop_items_failed", "error", err)
	}
	if _, err := csrf.Rotate(c); err != nil {
		l.Error("csrf_rotate_failed", "error", err)
	}
	h.publish(c, events.Event{Type: events.UserLoggedOut, UserID: userID})

	l.Info("logout_success")
	return notice(c, http.StatusOK, views.Success("Logged out"))
}

func (h *Handler) SessionInfo(c echo.Context) error {
	s := session.FromContext(c)
	view := sessionView{Authenticated: s.IsAuthenticated()}
	if view.Authenticated {
		view.User, _ = s.CurrentUser()
		view.IsAdmin = s.IsAdmin()
	}
	return c.JSON(http.StatusOK, view)
}

type verifyResult struct {
	Valid bool           `json:"valid"`
	User  map[string]any `json:"user,omitempty"`
	Error string         `json:"error,omitempty"`
}

// VerifySession asks the backend whether the stored credential still holds.
func (h *Handler) VerifySession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify")

	s := session.FromContext(c)
	tok, ok := s.Token()
	if !ok {
		return c.JSON(http.StatusOK, verifyResult{Error: "No token found"})
	}

	user, err := h.d.API.GetUser(ctx, tok)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			s.Logout()
		}
		l.Warn("verify_session_failed", "reason", apiclient.Message(err, "verification failed"), "error", err)
		return c.JSON(http.StatusOK, verifyResult{Error: apiclient.Message(err, "Token verification failed")})
	}
	return c.JSON(http.StatusOK, verifyResult{Valid: true, User: user})
}
