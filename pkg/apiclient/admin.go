package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

func (c *Client) Customers(ctx context.Context, token string) ([]Customer, error) {
	var out []Customer
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/customers", token: token, fallback: "Failed to fetch customers"}, &out)
	return out, err
}

func (c *Client) Customer(ctx context.Context, token, id string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/customers/" + url.PathEscape(id), token: token, fallback: "Failed to fetch customer"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context, token string) (Stats, error) {
	var out Stats
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/dashboard/stats", token: token, fallback: "Failed to fetch dashboard stats"}, &out)
	return out, err
}

// File is one part of an image upload.
type File struct {
	Name string
	Body io.Reader
}

func (c *Client) UploadImage(ctx context.Context, token string, f File) (*UploadedImage, error) {
	body, contentType, err := multipartBody("file", []File{f})
	if err != nil {
		return nil, err
	}
	var out UploadedImage
	r := request{method: http.MethodPost, path: "/upload/image", token: token, raw: body, contentType: contentType, fallback: "Failed to upload image"}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadImages(ctx context.Context, token string, files []File) (*UploadedImages, error) {
	body, contentType, err := multipartBody("files", files)
	if err != nil {
		return nil, err
	}
	var out UploadedImages
	r := request{method: http.MethodPost, path: "/upload/images", token: token, raw: body, contentType: contentType, fallback: "Failed to upload images"}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(field string, files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
