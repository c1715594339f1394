package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/itemstore"
	"github.com/Skotchmaster/beads_storefront/internal/search"
	"github.com/Skotchmaster/beads_storefront/internal/session"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	middleware "github.com/Skotchmaster/beads_storefront/pkg/middleware/auth"
)

type Deps struct {
	API    *apiclient.Client
	Items  *itemstore.Registry
	Search *search.Service
	Events events.Publisher

	LoginPath    string
	CookieSecure bool
	Now          func() time.Time

	// LoginLimit wraps the credential endpoints; nil leaves them unlimited.
	LoginLimit echo.MiddlewareFunc
	// Ready reports backing services for /health/ready; nil means always ready.
	Ready func(c echo.Context) error
}

func Register(e *echo.Echo, d *Deps) *Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.LoginPath == "" {
		d.LoginPath = "/login"
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Search == nil {
		d.Search = &search.Service{Catalog: d.API}
	}

	e.Validator = NewValidator()
	e.HTTPErrorHandler = NoticeErrorHandler(e)

	h := &Handler{d: d}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	site := e.Group("",
		session.Middleware(session.CookieConfig{Name: session.TokenKey, Path: "/", Secure: d.CookieSecure}, d.Now),
		VisitorMiddleware(d.CookieSecure),
	)

	guard := middleware.NewGuard(d.LoginPath, func(c echo.Context) middleware.Viewer {
		return session.FromContext(c)
	})

	limit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.LoginLimit != nil {
		limit = d.LoginLimit
	}

	site.GET("/", h.Home)
	site.GET("/shop", h.Shop)
	site.GET("/products/:id", h.ProductDetail)
	site.GET("/search", h.Search)
	site.GET("/offers/:id", h.OfferDetail)

	site.POST("/login", h.Login, limit)
	site.POST("/signup", h.Signup, limit)
	site.POST("/logout", h.Logout)
	site.GET("/session", h.SessionInfo)
	site.GET("/session/verify", h.VerifySession)

	for _, kind := range []itemstore.Kind{itemstore.KindWishlist, itemstore.KindCart} {
		base := "/" + routeName(kind)
		ih := &itemHandler{h: h, kind: kind}
		site.GET(base, ih.List)
		site.POST(base, ih.Add)
		site.POST(base+"/toggle", ih.Toggle)
		site.GET(base+"/:id", ih.Contains)
		site.DELETE(base+"/:id", ih.Remove)
		site.DELETE(base, ih.Clear)
	}

	// The account views share the root prefix, so the guard goes on each
	// route; a guarded "" group would also catch unknown paths.
	login := guard.RequireLogin
	site.GET("/cart", h.Cart, login)
	site.POST("/cart", h.AddToCart, login)
	site.PUT("/cart", h.UpdateCartItem, login)
	site.DELETE("/cart/:product_id", h.RemoveFromCart, login)
	site.DELETE("/cart", h.ClearCart, login)
	site.GET("/checkout", h.Checkout, login)
	site.POST("/checkout", h.PlaceOrder, login)
	site.GET("/account/orders", h.MyOrders, login)
	site.GET("/account/orders/:id", h.OrderDetail, login)
	site.POST("/account/orders/:id/cancel", h.CancelOrder, login)
	site.GET("/account/addresses", h.Addresses, login)
	site.POST("/account/addresses", h.CreateAddress, login)
	site.PUT("/account/addresses/:id", h.UpdateAddress, login)
	site.DELETE("/account/addresses/:id", h.DeleteAddress, login)
	site.PUT("/account/addresses/:id/default", h.SetDefaultAddress, login)

	admin := site.Group("/admin", guard.RequireAdmin)
	admin.GET("", h.AdminDashboard)
	admin.GET("/dashboard", h.AdminDashboard)

	admin.GET("/products", h.AdminProducts)
	admin.POST("/products", h.AdminCreateProduct)
	admin.PUT("/products/:id/details", h.AdminUpdateProductDetails)
	admin.PUT("/products/:id/price", h.AdminUpdateProductPrice)
	admin.PUT("/products/:id/stock", h.AdminUpdateProductStock)
	admin.PATCH("/products/:id/availability", h.AdminSetProductAvailability)
	admin.DELETE("/products/:id", h.AdminDeleteProduct)
	admin.POST("/search/reindex", h.AdminReindex)

	admin.GET("/categories", h.AdminCategories)
	admin.POST("/categories", h.AdminCreateCategory)
	admin.PUT("/categories/:id", h.AdminUpdateCategory)
	admin.PATCH("/categories/:id/toggle-active", h.AdminToggleCategory)
	admin.DELETE("/categories/:id", h.AdminDeleteCategory)

	admin.GET("/offers", h.AdminOffers)
	admin.POST("/offers", h.AdminCreateOffer)
	admin.PUT("/offers/:id", h.AdminUpdateOffer)
	admin.PATCH("/offers/:id/toggle-active", h.AdminToggleOffer)
	admin.DELETE("/offers/:id", h.AdminDeleteOffer)

	admin.GET("/orders", h.AdminOrders)
	admin.GET("/orders/export", h.AdminExportOrders)
	admin.GET("/orders/:id", h.AdminOrderDetail)
	admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)

	admin.GET("/payments", h.AdminPayments)
	admin.PATCH("/payments/:id", h.AdminUpdatePaymentStatus)

	admin.GET("/customers", h.AdminCustomers)
	admin.GET("/customers/:id", h.AdminCustomer)

	admin.POST("/uploads/image", h.AdminUploadImage)
	admin.POST("/uploads/images", h.AdminUploadImages)

	return h
}

// routeName maps a store kind onto its URL; the local cart is served as the bag
// so it never collides with the server-side /cart.
func routeName(k itemstore.Kind) string {
	if k == itemstore.KindCart {
		return "bag"
	}
	return string(k)
}
