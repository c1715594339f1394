package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	var out []Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/products/", query: q.Values(), fallback: "Failed to fetch products"}, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(id), fallback: "Failed to fetch product"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/products/", token: token, body: in, fallback: "Failed to create product"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) productUpdate(ctx context.Context, method, token, id, part string, in any, fallback string) (*Product, error) {
	var out Product
	path := "/products/" + url.PathEscape(id) + "/" + part
	if err := c.do(ctx, request{method: method, path: path, token: token, body: in, fallback: fallback}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProductDetails(ctx context.Context, token, id string, in ProductDetails) (*Product, error) {
	return c.productUpdate(ctx, http.MethodPut, token, id, "details", in, "Failed to update product")
}

func (c *Client) UpdateProductPrice(ctx context.Context, token, id string, in ProductPrice) (*Product, error) {
	return c.productUpdate(ctx, http.MethodPut, token, id, "price", in, "Failed to update product price")
}

func (c *Client) UpdateProductStock(ctx context.Context, token, id string, in ProductStock) (*Product, error) {
	return c.productUpdate(ctx, http.MethodPut, token, id, "stock", in, "Failed to update product stock")
}

func (c *Client) SetProductAvailability(ctx context.Context, token, id string, in ProductAvailability) (*Product, error) {
	return c.productUpdate(ctx, http.MethodPatch, token, id, "availability", in, "Failed to change product availability")
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/products/" + url.PathEscape(id), token: token, fallback: "Failed to delete product"}, nil)
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, request{method: http.MethodGet, path: "/categories/", fallback: "Failed to fetch categories"}, &out)
	return out, err
}

func (c *Client) Category(ctx context.Context, id string) (*Category, error) {
	var out Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories/" + url.PathEscape(id), fallback: "Failed to fetch category"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, token string, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories/", token: token, body: in, fallback: "Failed to create category"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, token, id string, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.do(ctx, request{method: http.MethodPut, path: "/categories/" + url.PathEscape(id), token: token, body: in, fallback: "Failed to update category"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleCategory(ctx context.Context, token, id string, active bool) (*Category, error) {
	var out Category
	path := "/categories/" + url.PathEscape(id) + "/toggle-active"
	body := map[string]bool{"is_active": active}
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, token: token, body: body, fallback: "Failed to update category status"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + url.PathEscape(id), token: token, fallback: "Failed to delete category"}, nil)
}

func (c *Client) Offers(ctx context.Context) ([]Offer, error) {
	var out []Offer
	err := c.do(ctx, request{method: http.MethodGet, path: "/offers/", fallback: "Failed to fetch offers"}, &out)
	return out, err
}

func (c *Client) ActiveOffers(ctx context.Context) ([]Offer, error) {
	var out []Offer
	err := c.do(ctx, request{method: http.MethodGet, path: "/offers/active", fallback: "Failed to fetch offers"}, &out)
	return out, err
}

func (c *Client) Offer(ctx context.Context, id string) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, request{method: http.MethodGet, path: "/offers/" + url.PathEscape(id), fallback: "Failed to fetch offer"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OfferProducts(ctx context.Context, id string) (*OfferProducts, error) {
	var out OfferProducts
	path := "/offers/" + url.PathEscape(id) + "/products"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, fallback: "Offer not found"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOffer(ctx context.Context, token string, in OfferInput) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, request{method: http.MethodPost, path: "/offers/", token: token, body: in, fallback: "Failed to create offer"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOffer(ctx context.Context, token, id string, in OfferInput) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, request{method: http.MethodPut, path: "/offers/" + url.PathEscape(id), token: token, body: in, fallback: "Failed to update offer"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleOffer(ctx context.Context, token, id string) (*Offer, error) {
	var out Offer
	path := "/offers/" + url.PathEscape(id) + "/toggle-active"
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, token: token, body: struct{}{}, fallback: "Failed to update offer status"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOffer(ctx context.Context, token, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/offers/" + url.PathEscape(id), token: token, fallback: "Failed to delete offer"}, nil)
}
