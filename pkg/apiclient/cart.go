package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Cart(ctx context.Context, token string) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me/cart", token: token, fallback: "Failed to load cart"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, in CartItemInput) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/me/cart", token: token, body: in, fallback: "Failed to add to cart"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, in CartItemInput) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, request{method: http.MethodPut, path: "/users/me/cart", token: token, body: in, fallback: "Failed to update quantity"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, token, productID string) error {
	path := "/users/me/cart/" + url.PathEscape(productID)
	return c.do(ctx, request{method: http.MethodDelete, path: path, token: token, fallback: "Failed to remove item"}, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/users/me/cart", token: token, fallback: "Failed to clear cart"}, nil)
}
