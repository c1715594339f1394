package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/export"
	"github.com/Skotchmaster/beads_storefront/internal/itemstore"
	"github.com/Skotchmaster/beads_storefront/internal/session"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
)

type testServer struct {
	e       *echo.Echo
	events  *events.Recorder
	visitor string
}

func newTestServer(t *testing.T, backend http.Handler) *testServer {
	t.Helper()

	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	rec := &events.Recorder{}
	e := echo.New()
	Register(e, &Deps{
		API:    apiclient.NewClient(api.URL, 2*time.Second),
		Items:  itemstore.NewRegistry(itemstore.NewMemoryPersister(), nil),
		Events: rec,
	})
	return &testServer{e: e, events: rec, visitor: uuid.NewString()}
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func adminToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{"user_id": "admin1", "email": "admin@example.com", "is_admin": true, "exp": time.Now().Add(time.Hour).Unix()})
}

func customerToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{"user_id": "u1", "email": "u1@example.com", "is_admin": false, "exp": time.Now().Add(time.Hour).Unix()})
}

type call struct {
	method string
	target string
	body   any
	token  string
	html   bool
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(c.method, c.target, body)
	if c.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.html {
		req.Header.Set(echo.HeaderAccept, "text/html,application/xhtml+xml")
	} else {
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	}
	req.AddCookie(&http.Cookie{Name: visitorCookie, Value: s.visitor})
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: c.token})
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func noticeOf(t *testing.T, rec *httptest.ResponseRecorder) (level, message string) {
	t.Helper()
	var body struct {
		Notice struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		} `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Notice.Level, body.Notice.Message
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAdminGuard_RedirectsBrowsers(t *testing.T) {
	t.Parallel()

	var backendCalls atomic.Int32
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	tests := []struct {
		name  string
		token string
	}{
		{name: "anonymous"},
		{name: "customer", token: customerToken(t)},
		{name: "expired admin", token: signToken(t, jwt.MapClaims{"user_id": "a", "is_admin": true, "exp": time.Now().Add(-time.Minute).Unix()})},
		{name: "garbage", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, call{method: http.MethodGet, target: "/admin/dashboard", token: tt.token, html: true})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login?next="+url.QueryEscape("/admin/dashboard"), rec.Header().Get(echo.HeaderLocation))
		})
	}
	assert.Zero(t, backendCalls.Load(), "a denied view must not reach the backend")
}

func TestAdminGuard_JSONClients(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, http.NotFoundHandler())

	rec := s.do(t, call{method: http.MethodGet, target: "/admin/orders"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	level, msg := noticeOf(t, rec)
	assert.Equal(t, "error", level)
	assert.Equal(t, "please log in to continue", msg)

	rec = s.do(t, call{method: http.MethodGet, target: "/admin/orders", token: customerToken(t)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, msg = noticeOf(t, rec)
	assert.Equal(t, "admin access required", msg)
}

func TestAdminDashboard_RendersForAdmin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		writeJSON(w, http.StatusOK, map[string]any{"total_orders": 3, "total_products": 12})
	})
	mux.HandleFunc("GET /orders/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "o1", "status": "shipped", "payment_status": "paid", "total": 40}})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodGet, target: "/admin/dashboard", token: adminToken(t), html: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Stats  map[string]any `json:"stats"`
		Recent []struct {
			ID          string            `json:"id"`
			StatusColor map[string]string `json:"status_color"`
		} `json:"recent_orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body.Stats["total_orders"])
	require.Len(t, body.Recent, 1)
	assert.Equal(t, "o1", body.Recent[0].ID)
	assert.NotEmpty(t, body.Recent[0].StatusColor["bg"])
}

func TestLogin_ThenAdminDashboard(t *testing.T) {
	t.Parallel()

	tok := adminToken(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": tok, "token_type": "bearer"})
	})
	mux.HandleFunc("GET /admin/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+tok, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("GET /orders/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodPost, target: "/login", body: map[string]string{"email": "admin@example.com", "password": "nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Equal(t, "Invalid email or password", msg)
	assert.Nil(t, cookieNamed(rec, session.TokenKey))

	rec = s.do(t, call{method: http.MethodPost, target: "/login", body: map[string]string{"email": "admin@example.com", "password": "s3cret"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		User     session.User `json:"user"`
		Redirect string       `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.User.IsAdmin)
	assert.Equal(t, "/admin/dashboard", res.Redirect)

	ck := cookieNamed(rec, session.TokenKey)
	require.NotNil(t, ck)
	assert.Equal(t, tok, ck.Value)
	assert.True(t, ck.HttpOnly)

	rec = s.do(t, call{method: http.MethodGet, target: "/admin/dashboard", token: ck.Value, html: true})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, s.events.Types(), events.UserLoggedIn)
}

func TestLogin_RejectsInvalidFormBeforeBackend(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	rec := s.do(t, call{method: http.MethodPost, target: "/login", body: map[string]string{"email": "not-an-email", "password": "x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Contains(t, msg, "email")
	assert.Zero(t, calls.Load())
}

func TestRedirectAfterLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		next  string
		admin bool
		want  string
	}{
		{next: "", admin: false, want: "/"},
		{next: "", admin: true, want: "/admin/dashboard"},
		{next: "/admin/orders", admin: true, want: "/admin/orders"},
		{next: "https://evil.example", admin: false, want: "/"},
		{next: "//evil.example", admin: true, want: "/admin/dashboard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, redirectAfterLogin(tt.next, tt.admin), "next=%q", tt.next)
	}
}

func TestWishlist_AddContainsRemove(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"_id": "p1", "name": "Glass bead set", "price": 25.0, "discount_price": 20.0,
			"image_urls": []string{"https://img.example/p1.jpg"}, "is_available": true,
		})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodGet, target: "/wishlist/p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"product_id":"p1","in_list":false}`, rec.Body.String())

	rec = s.do(t, call{method: http.MethodPost, target: "/wishlist", body: map[string]string{"product_id": "p1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list itemList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "p1", list.Items[0].ProductID)
	assert.Equal(t, 20.0, list.Items[0].Price)
	assert.Equal(t, "https://img.example/p1.jpg", list.Items[0].Image)

	rec = s.do(t, call{method: http.MethodGet, target: "/wishlist/p1"})
	assert.JSONEq(t, `{"product_id":"p1","in_list":true}`, rec.Body.String())

	rec = s.do(t, call{method: http.MethodDelete, target: "/wishlist/p1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, target: "/wishlist/p1"})
	assert.JSONEq(t, `{"product_id":"p1","in_list":false}`, rec.Body.String())

	assert.Equal(t, []string{events.WishlistAdded, events.WishlistRemoved}, s.events.Types())
}

func TestWishlist_UnknownProduct(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Product not found"})
	}))

	rec := s.do(t, call{method: http.MethodPost, target: "/bag", body: map[string]string{"product_id": "missing"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Equal(t, "Product not found", msg)

	rec = s.do(t, call{method: http.MethodGet, target: "/bag"})
	assert.JSONEq(t, `{"items":[],"count":0,"total":0}`, rec.Body.String())
}

func TestCart_ExpiredSessionClearsCredential(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodGet, target: "/cart", token: customerToken(t)})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	level, msg := noticeOf(t, rec)
	assert.Equal(t, "error", level)
	assert.Equal(t, sessionExpired, msg)

	ck := cookieNamed(rec, session.TokenKey)
	require.NotNil(t, ck, "credential cookie must be cleared")
	assert.Equal(t, -1, ck.MaxAge)
	assert.Empty(t, ck.Value)
}

func TestCart_BackendMessagePassesThrough(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/me/cart", func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.CartItemInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 1, in.Quantity)
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Only 0 items available in stock"})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodPost, target: "/cart", token: customerToken(t), body: map[string]string{"product_id": "p1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Equal(t, "Only 0 items available in stock", msg)
	assert.Nil(t, cookieNamed(rec, session.TokenKey), "a 400 must not touch the session")
}

func TestShop_RejectsMalformedFilters(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, []any{})
	}))

	tests := []struct {
		query string
		want  string
	}{
		{query: "min_price=abc", want: "min_price must be a positive number"},
		{query: "max_price=-3", want: "max_price must be a positive number"},
		{query: "min_price=10&max_price=5", want: "min_price cannot exceed max_price"},
		{query: "is_available=maybe", want: "is_available must be true, false or all"},
		{query: "limit=0", want: "limit must be between 1 and 200"},
		{query: "skip=-1", want: "skip must be a non-negative integer"},
	}
	for _, tt := range tests {
		rec := s.do(t, call{method: http.MethodGet, target: "/shop?" + tt.query})
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.query)
		_, msg := noticeOf(t, rec)
		assert.Equal(t, tt.want, msg, tt.query)
	}
	assert.Zero(t, calls.Load())
}

func TestShop_ForwardsFilters(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{$}", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "necklaces", q.Get("category"))
		assert.Equal(t, "5", q.Get("min_price"))
		assert.Equal(t, "true", q.Get("is_available"))
		writeJSON(w, http.StatusOK, []map[string]any{{"_id": "p9", "name": "Bead necklace", "price": 12.5}})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodGet, target: "/shop?category=necklaces&min_price=5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"p9"`)
}

func TestVisitorCookie(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ck := cookieNamed(rec, visitorCookie)
	require.NotNil(t, ck)
	_, err := uuid.Parse(ck.Value)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"authenticated":false,"is_admin":false}`, rec.Body.String())

	rec = s.do(t, call{method: http.MethodGet, target: "/session"})
	assert.Nil(t, cookieNamed(rec, visitorCookie), "a valid visitor cookie is kept as is")
}

func TestAdminCreateCategory_FillsSlug(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /categories/{$}", func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.CategoryInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "glass-beads", in.Slug)
		assert.True(t, in.IsActive)
		writeJSON(w, http.StatusCreated, map[string]any{"_id": "c1", "name": in.Name, "slug": in.Slug, "is_active": true})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodPost, target: "/admin/categories", token: adminToken(t), body: map[string]any{"name": "  Glass Beads! "}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"c1"`)

	rec = s.do(t, call{method: http.MethodPost, target: "/admin/categories", token: adminToken(t), body: map[string]any{"slug": "x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminOrders_UnknownStatus(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, http.NotFoundHandler())

	rec := s.do(t, call{method: http.MethodGet, target: "/admin/orders?status=lost", token: adminToken(t)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Equal(t, "Unknown order status", msg)
}

func TestAdminExportOrders(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "delivered", r.URL.Query().Get("status_filter"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "o1", "user_id": "u1", "status": "delivered", "payment_status": "paid", "total": 40, "item_count": 2},
			{"id": "o2", "user_id": "u2", "status": "delivered", "payment_status": "paid", "total": 15, "item_count": 1},
		})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodGet, target: "/admin/orders/export?status=delivered", token: adminToken(t)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"orders-")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "o1", rows[1][0])
	assert.Equal(t, "o2", rows[2][0])
}

func TestLogout_DropsItemsAndCredential(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"_id": r.PathValue("id"), "name": "Bead", "price": 3})
	})
	s := newTestServer(t, mux)
	tok := customerToken(t)

	rec := s.do(t, call{method: http.MethodPost, target: "/bag", token: tok, body: map[string]string{"product_id": "p2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, target: "/logout", token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cookieNamed(rec, session.TokenKey)
	require.NotNil(t, ck)
	assert.Equal(t, -1, ck.MaxAge)

	rec = s.do(t, call{method: http.MethodGet, target: "/bag"})
	assert.JSONEq(t, `{"items":[],"count":0,"total":0}`, rec.Body.String())
}

func TestWishlistToggle_RemovesProductGoneFromBackend(t *testing.T) {
	t.Parallel()

	var deleted atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if deleted.Load() {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"_id": r.PathValue("id"), "name": "Seed beads", "price": 8})
	})
	s := newTestServer(t, mux)

	rec := s.do(t, call{method: http.MethodPost, target: "/wishlist/toggle", body: map[string]string{"product_id": "p1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"in_list":true`)

	deleted.Store(true)

	rec = s.do(t, call{method: http.MethodPost, target: "/wishlist/toggle", body: map[string]string{"product_id": "p1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"in_list":false`)

	rec = s.do(t, call{method: http.MethodGet, target: "/wishlist/p1"})
	assert.JSONEq(t, `{"product_id":"p1","in_list":false}`, rec.Body.String())

	rec = s.do(t, call{method: http.MethodPost, target: "/wishlist/toggle", body: map[string]string{"product_id": "p1"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, msg := noticeOf(t, rec)
	assert.Equal(t, "Product not found", msg)

	rec = s.do(t, call{method: http.MethodGet, target: "/wishlist"})
	assert.JSONEq(t, `{"items":[],"count":0,"total":0}`, rec.Body.String())

	assert.Equal(t, []string{events.WishlistAdded, events.WishlistRemoved}, s.events.Types())
}

func TestUnknownPath_NotFoundForAnonymousBrowser(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, http.NotFoundHandler())

	rec := s.do(t, call{method: http.MethodGet, target: "/no-such-page", html: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))

	rec = s.do(t, call{method: http.MethodGet, target: "/cart", html: true})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/cart"), rec.Header().Get(echo.HeaderLocation))
}
