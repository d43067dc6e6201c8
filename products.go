package ecomapi

import (
	"context"
	"io"
)

// Product mirrors the backend's product payload. Fields the client does not
// use round-trip untouched.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// ListProducts returns the storefront catalog. Accepts optional query params
// (page, category, ...) as a Param map.
func ListProducts(ctx context.Context, c *Client, query Param) ([]Product, error) {
	var q any
	if query != nil {
		q = query
	}
	return As[[]Product](ctx, c, "products", "GET", q)
}

// GetProduct fetches one product by id.
func GetProduct(ctx context.Context, c *Client, id string) (*Product, error) {
	return As[*Product](ctx, c, "products/"+id, "GET", nil)
}

// CreateProduct creates a product through the admin surface.
func CreateProduct(ctx context.Context, c *Client, p *Product) (*Product, error) {
	return As[*Product](ctx, c, "products/admin/products", "POST", p)
}

// UpdateProduct replaces a product through the admin surface.
func UpdateProduct(ctx context.Context, c *Client, id string, p *Product) (*Product, error) {
	return As[*Product](ctx, c, "products/admin/products/"+id, "PUT", p)
}

// DeleteProduct removes a product through the admin surface.
func DeleteProduct(ctx context.Context, c *Client, id string) error {
	_, err := c.Do(ctx, "products/admin/products/"+id, "DELETE", nil)
	return err
}

// UploadProductImage posts an image for a product as multipart form data and
// returns the stored image URL.
func UploadProductImage(ctx context.Context, c *Client, id, filename, mimeType string, f io.Reader) (string, error) {
	form := NewForm().AddFile("image", filename, mimeType, f)
	res, err := As[struct {
		URL string `json:"url"`
	}](ctx, c, "products/admin/products/"+id+"/image", "POST", form)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}
