package api

import (
	"context"
	"fmt"
	"net/url"
)

// ProductService wraps the product catalog endpoints.
type ProductService struct {
	c *Client
}

// List returns every product visible to the caller.
func (s *ProductService) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.c.get(ctx, "/productos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one product by ID.
func (s *ProductService) Get(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := s.c.get(ctx, fmt.Sprintf("/productos/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByBarcode looks a product up by its barcode.
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	var out Product
	if err := s.c.get(ctx, "/productos/codigo/"+url.PathEscape(barcode), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search finds products by name.
func (s *ProductService) Search(ctx context.Context, name string) ([]Product, error) {
	var out []Product
	if err := s.c.get(ctx, "/productos/buscar?nombre="+url.QueryEscape(name), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTenant returns a tenant's products.
func (s *ProductService) ListByTenant(ctx context.Context, tenantID string) ([]Product, error) {
	var out []Product
	if err := s.c.get(ctx, "/productos/tenant/"+url.PathEscape(tenantID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLowStock returns a tenant's products at or below their minimum stock.
func (s *ProductService) ListLowStock(ctx context.Context, tenantID string) ([]Product, error) {
	var out []Product
	if err := s.c.get(ctx, "/productos/tenant/"+url.PathEscape(tenantID)+"/bajo-stock", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create registers a new product.
func (s *ProductService) Create(ctx context.Context, p Product) (*Product, error) {
	var out Product
	if err := s.c.post(ctx, "/productos", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a product.
func (s *ProductService) Update(ctx context.Context, id int64, p Product) (*Product, error) {
	var out Product
	if err := s.c.put(ctx, fmt.Sprintf("/productos/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/productos/%d", id))
}
