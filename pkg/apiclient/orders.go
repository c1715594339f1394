package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) PlaceOrder(ctx context.Context, token string, in OrderCreate) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders/", token: token, body: in, fallback: "Failed to place order"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context, token string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders/me", token: token, fallback: "Failed to fetch orders"}, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, token, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(id), token: token, fallback: "Failed to fetch order"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, token, id string) (*Order, error) {
	var out Order
	path := "/orders/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, request{method: http.MethodPost, path: path, token: token, body: struct{}{}, fallback: "Failed to cancel order"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllOrders lists every order for the admin views. An empty status lists all.
func (c *Client) AllOrders(ctx context.Context, token, status string, limit int) ([]OrderSummary, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status_filter", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []OrderSummary
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders/", token: token, query: q, fallback: "Failed to fetch orders"}, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, in OrderStatusUpdate) (*Order, error) {
	var out Order
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, token: token, body: in, fallback: "Failed to update order status"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, token, id string, in PaymentStatusUpdate) (*Order, error) {
	var out Order
	path := "/orders/" + url.PathEscape(id) + "/payment"
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, token: token, body: in, fallback: "Failed to update payment status"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentStats(ctx context.Context, token string) (Stats, error) {
	var out Stats
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders/stats/payments", token: token, fallback: "Failed to fetch payment stats"}, &out)
	return out, err
}
