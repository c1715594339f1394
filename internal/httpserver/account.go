package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

type checkoutView struct {
	Cart           *apiclient.Cart     `json:"cart"`
	Addresses      []apiclient.Address `json:"addresses"`
	PaymentMethods []string            `json:"payment_methods"`
}

func (h *Handler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.view")

	cart, err := h.d.API.Cart(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "checkout_view_failed", err, "Failed to load cart")
	}
	addresses, err := h.d.API.Addresses(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "checkout_view_failed", err, "Failed to fetch addresses")
	}

	return c.JSON(http.StatusOK, checkoutView{
		Cart:           cart,
		Addresses:      nonNil(addresses),
		PaymentMethods: views.PaymentMethods,
	})
}

type orderView struct {
	Order        *apiclient.Order `json:"order"`
	StatusColor  views.Color      `json:"status_color"`
	PaymentColor views.Color      `json:"payment_color"`
	Timeline     []views.Step     `json:"timeline"`
	Cancellable  bool             `json:"cancellable"`
	Notice       *views.Notice    `json:"notice,omitempty"`
}

func newOrderView(o *apiclient.Order, n *views.Notice) orderView {
	return orderView{
		Order:        o,
		StatusColor:  views.OrderStatusColor(o.Status),
		PaymentColor: views.PaymentStatusColor(o.PaymentStatus),
		Timeline:     views.OrderTimeline(o.Status),
		Cancellable:  views.Cancellable(o.Status),
		Notice:       n,
	}
}

type orderRow struct {
	apiclient.OrderSummary
	StatusColor  views.Color `json:"status_color"`
	PaymentColor views.Color `json:"payment_color"`
}

func orderRows(in []apiclient.OrderSummary) []orderRow {
	out := make([]orderRow, len(in))
	for i, o := range in {
		out[i] = orderRow{
			OrderSummary: o,
			StatusColor:  views.OrderStatusColor(o.Status),
			PaymentColor: views.PaymentStatusColor(o.PaymentStatus),
		}
	}
	return out
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	var req apiclient.OrderCreate
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("place_order_failed", "status", 400, "reason", "invalid body")
		return err
	}
	if req.CouponCode != nil && *req.CouponCode == "" {
		req.CouponCode = nil
	}

	order, err := h.d.API.PlaceOrder(ctx, h.token(c), req)
	if err != nil {
		return h.backendFailure(c, l, "place_order_failed", err, "Failed to place order")
	}

	h.publish(c, events.Event{Type: events.OrderPlaced, OrderID: order.ID, Data: map[string]any{
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
		"items":          len(order.Items),
	}})
	l.Info("place_order_success", "order_id", order.ID)

	n := views.Success("Order placed successfully")
	return c.JSON(http.StatusCreated, newOrderView(order, &n))
}

func (h *Handler) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.orders")

	orders, err := h.d.API.MyOrders(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "my_orders_failed", err, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orderRows(orders)})
}

func (h *Handler) OrderDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.order_detail")

	order, err := h.d.API.Order(ctx, h.token(c), c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "order_detail_failed", err, "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, newOrderView(order, nil))
}

func (h *Handler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.cancel_order")

	order, err := h.d.API.CancelOrder(ctx, h.token(c), c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "cancel_order_failed", err, "Failed to cancel order")
	}

	h.publish(c, events.Event{Type: events.OrderCancelled, OrderID: order.ID})
	l.Info("cancel_order_success", "order_id", order.ID)
	n := views.Success("Order cancelled successfully")
	return c.JSON(http.StatusOK, newOrderView(order, &n))
}

func (h *Handler) Addresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.addresses")

	addresses, err := h.d.API.Addresses(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "addresses_failed", err, "Failed to fetch addresses")
	}
	return c.JSON(http.StatusOK, map[string]any{"addresses": nonNil(addresses)})
}

func (h *Handler) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.create_address")

	var req apiclient.AddressInput
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("create_address_failed", "status", 400, "reason", "invalid body")
		return err
	}

	addr, err := h.d.API.CreateAddress(ctx, h.token(c), req)
	if err != nil {
		return h.backendFailure(c, l, "create_address_failed", err, "Failed to add address")
	}
	return c.JSON(http.StatusCreated, map[string]any{"address": addr, "notice": views.Success("Address added")})
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_address")

	var req apiclient.AddressInput
	if ok, err := bindValid(c, &req); !ok {
		l.Warn("update_address_failed", "status", 400, "reason", "invalid body")
		return err
	}

	addr, err := h.d.API.UpdateAddress(ctx, h.token(c), c.Param("id"), req)
	if err != nil {
		return h.backendFailure(c, l, "update_address_failed", err, "Failed to update address")
	}
	return c.JSON(http.StatusOK, map[string]any{"address": addr, "notice": views.Success("Address updated")})
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.delete_address")

	if err := h.d.API.DeleteAddress(ctx, h.token(c), c.Param("id")); err != nil {
		return h.backendFailure(c, l, "delete_address_failed", err, "Failed to delete address")
	}
	return notice(c, http.StatusOK, views.Success("Address deleted"))
}

func (h *Handler) SetDefaultAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.default_address")

	if err := h.d.API.SetDefaultAddress(ctx, h.token(c), c.Param("id")); err != nil {
		return h.backendFailure(c, l, "default_address_failed", err, "Failed to set default address")
	}
	return notice(c, http.StatusOK, views.Success("Default address updated"))
}
