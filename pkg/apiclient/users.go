package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Register(ctx context.Context, in RegisterRequest) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, request{method: http.MethodPost, path: "/users/register", body: in, fallback: "Signup failed"}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/login", body: in, fallback: "Login failed"}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "Login failed: No access token received"}
	}
	return &out, nil
}

// GetUser asks the backend to verify token and describe its owner.
func (c *Client) GetUser(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, request{method: http.MethodGet, path: "/get-user", token: token, fallback: "Token verification failed"}, &out)
	return out, err
}

func (c *Client) Addresses(ctx context.Context, token string) ([]Address, error) {
	var out []Address
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/me/addresses", token: token, fallback: "Failed to fetch addresses"}, &out)
	return out, err
}

func (c *Client) CreateAddress(ctx context.Context, token string, in AddressInput) (*Address, error) {
	var out Address
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/me/addresses", token: token, body: in, fallback: "Failed to add address"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token, id string, in AddressInput) (*Address, error) {
	var out Address
	path := "/users/me/addresses/" + url.PathEscape(id)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, token: token, body: in, fallback: "Failed to update address"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, token, id string) error {
	path := "/users/me/addresses/" + url.PathEscape(id)
	return c.do(ctx, request{method: http.MethodDelete, path: path, token: token, fallback: "Failed to delete address"}, nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, token, id string) error {
	path := "/users/me/addresses/" + url.PathEscape(id) + "/default"
	return c.do(ctx, request{method: http.MethodPut, path: path, token: token, fallback: "Failed to set default address"}, nil)
}
