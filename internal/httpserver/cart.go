package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

type cartView struct {
	Cart   *apiclient.Cart `json:"cart"`
	Notice *views.Notice   `json:"notice,omitempty"`
}

func emptyCart() *apiclient.Cart {
	return &apiclient.Cart{Items: []apiclient.CartItem{}}
}

func (h *Handler) Cart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.d.API.Cart(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "get_cart_failed", err, "Failed to load cart")
	}
	return c.JSON(http.StatusOK, cartView{Cart: cart})
}

func (h *Handler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	req := apiclient.CartItemInput{Quantity: 1}
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "invalid body")
		return err
	}

	cart, err := h.d.API.AddToCart(ctx, h.token(c), req)
	if err != nil {
		return h.backendFailure(c, l, "add_to_cart_failed", err, "Failed to add to cart")
	}

	h.publish(c, events.Event{Type: events.CartUpdated, ProductID: req.ProductID, Data: map[string]any{"quantity": req.Quantity, "op": "add"}})
	l.Info("add_to_cart_success", "product_id", req.ProductID)
	n := views.Success("Added to cart")
	return c.JSON(http.StatusOK, cartView{Cart: cart, Notice: &n})
}

func (h *Handler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req apiclient.CartItemInput
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("update_cart_failed", "status", 400, "reason", "invalid body")
		return err
	}

	cart, err := h.d.API.UpdateCartItem(ctx, h.token(c), req)
	if err != nil {
		return h.backendFailure(c, l, "update_cart_failed", err, "Failed to update quantity")
	}

	h.publish(c, events.Event{Type: events.CartUpdated, ProductID: req.ProductID, Data: map[string]any{"quantity": req.Quantity, "op": "update"}})
	return c.JSON(http.StatusOK, cartView{Cart: cart})
}

func (h *Handler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id := c.Param("product_id")
	if err := h.d.API.RemoveFromCart(ctx, h.token(c), id); err != nil {
		return h.backendFailure(c, l, "remove_from_cart_failed", err, "Failed to remove item")
	}

	h.publish(c, events.Event{Type: events.CartUpdated, ProductID: id, Data: map[string]any{"op": "remove"}})
	return h.refreshedCart(c, views.Success("Item removed from cart"))
}

func (h *Handler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.d.API.ClearCart(ctx, h.token(c)); err != nil {
		return h.backendFailure(c, l, "clear_cart_failed", err, "Failed to clear cart")
	}

	h.publish(c, events.Event{Type: events.CartUpdated, Data: map[string]any{"op": "clear"}})
	n := views.Success("Cart cleared")
	return c.JSON(http.StatusOK, cartView{Cart: emptyCart(), Notice: &n})
}

// refreshedCart reloads the cart after a mutation whose response carries no
// cart body.
func (h *Handler) refreshedCart(c echo.Context, n views.Notice) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.refresh")

	cart, err := h.d.API.Cart(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "refresh_cart_failed", err, "Failed to load cart")
	}
	return c.JSON(http.StatusOK, cartView{Cart: cart, Notice: &n})
}
