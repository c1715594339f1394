package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/session"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

const sessionExpired = "Your session has expired. Please log in again."

type Handler struct {
	d *Deps
}

type noticeBody struct {
	Notice views.Notice `json:"notice"`
}

func notice(c echo.Context, status int, n views.Notice) error {
	return c.JSON(status, noticeBody{Notice: n})
}

func fail(c echo.Context, status int, msg string) error {
	return notice(c, status, views.Error(msg))
}

// backendFailure turns a failed backend call into the visitor-facing notice.
// A 401 means the stored credential is no longer accepted, so it is dropped.
func (h *Handler) backendFailure(c echo.Context, l *slog.Logger, event string, err error, fallback string) error {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		session.FromContext(c).Logout()
		l.Warn(event, "status", http.StatusUnauthorized, "reason", "backend rejected credential", "error", err)
		return fail(c, http.StatusUnauthorized, sessionExpired)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		l.Warn(event, "status", apiErr.Status, "reason", apiErr.Message, "error", err)
		return fail(c, status, apiclient.Message(err, fallback))
	case errors.Is(err, context.Canceled):
		l.Info(event, "reason", "client went away", "error", err)
		return err
	default:
		l.Error(event, "status", http.StatusBadGateway, "reason", "backend unreachable", "error", err)
		return fail(c, http.StatusBadGateway, fallback)
	}
}

func (h *Handler) token(c echo.Context) string {
	tok, _ := session.FromContext(c).Token()
	return tok
}

func (h *Handler) userID(c echo.Context) string {
	if u, ok := session.FromContext(c).CurrentUser(); ok {
		return u.UserID
	}
	return ""
}

// publish never fails the request; a broken broker only costs the event.
func (h *Handler) publish(c echo.Context, e events.Event) {
	e.VisitorID = VisitorID(c)
	if e.UserID == "" {
		e.UserID = h.userID(c)
	}
	if e.At.IsZero() {
		e.At = h.d.Now().UTC()
	}
	if err := h.d.Events.Publish(c.Request().Context(), e); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event_publish_failed", "type", e.Type, "error", err)
	}
}

// NoticeErrorHandler renders errors that escape handlers, such as guard
// denials or bind failures, in the same notice shape the handlers use.
func NoticeErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := "Something went wrong. Please try again."

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		} else if errors.Is(err, context.Canceled) {
			status = 499
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		if jerr := notice(c, status, views.Error(msg)); jerr != nil {
			e.Logger.Error(jerr)
		}
	}
}
