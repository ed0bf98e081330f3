package api

import (
	"context"
	"fmt"
	"net/url"
)

// SupplierService wraps the supplier endpoints.
type SupplierService struct {
	c *Client
}

// List returns every supplier, active or not.
func (s *SupplierService) List(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	if err := s.c.get(ctx, "/proveedores", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns only suppliers currently enabled for purchasing.
func (s *SupplierService) ListActive(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	if err := s.c.get(ctx, "/proveedores/activos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one supplier by ID.
func (s *SupplierService) Get(ctx context.Context, id int64) (*Supplier, error) {
	var out Supplier
	if err := s.c.get(ctx, fmt.Sprintf("/proveedores/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByRUC looks a supplier up by tax registration number.
func (s *SupplierService) GetByRUC(ctx context.Context, ruc string) (*Supplier, error) {
	var out Supplier
	if err := s.c.get(ctx, "/proveedores/ruc/"+url.PathEscape(ruc), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search returns suppliers whose name matches the query.
func (s *SupplierService) Search(ctx context.Context, name string) ([]Supplier, error) {
	var out []Supplier
	if err := s.c.get(ctx, "/proveedores/buscar?nombre="+url.QueryEscape(name), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a supplier.
func (s *SupplierService) Create(ctx context.Context, p Supplier) (*Supplier, error) {
	var out Supplier
	if err := s.c.post(ctx, "/proveedores", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a supplier.
func (s *SupplierService) Update(ctx context.Context, id int64, p Supplier) (*Supplier, error) {
	var out Supplier
	if err := s.c.put(ctx, fmt.Sprintf("/proveedores/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a supplier.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/proveedores/%d", id))
}

// Activate re-enables a supplier.
func (s *SupplierService) Activate(ctx context.Context, id int64) (*Supplier, error) {
	var out Supplier
	if err := s.c.patch(ctx, fmt.Sprintf("/proveedores/%d/activar", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate disables a supplier without deleting its history.
func (s *SupplierService) Deactivate(ctx context.Context, id int64) (*Supplier, error) {
	var out Supplier
	if err := s.c.patch(ctx, fmt.Sprintf("/proveedores/%d/desactivar", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
