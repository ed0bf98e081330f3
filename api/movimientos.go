package api

import (
	"context"
	"fmt"
	"net/url"
)

// MovementService wraps the inventory movement endpoints.
type MovementService struct {
	c *Client
}

// List returns every movement visible to the caller.
func (s *MovementService) List(ctx context.Context) ([]StockMovement, error) {
	var out []StockMovement
	if err := s.c.get(ctx, "/movimientos-inventario", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one movement by ID.
func (s *MovementService) Get(ctx context.Context, id int64) (*StockMovement, error) {
	var out StockMovement
	if err := s.c.get(ctx, fmt.Sprintf("/movimientos-inventario/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByProduct returns a product's movements.
func (s *MovementService) ListByProduct(ctx context.Context, productID int64) ([]StockMovement, error) {
	var out []StockMovement
	if err := s.c.get(ctx, fmt.Sprintf("/movimientos-inventario/producto/%d", productID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTenant returns a tenant's movements.
func (s *MovementService) ListByTenant(ctx context.Context, tenantID string) ([]StockMovement, error) {
	var out []StockMovement
	if err := s.c.get(ctx, "/movimientos-inventario/tenant/"+url.PathEscape(tenantID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByType filters movements by kind (ENTRADA, SALIDA, AJUSTE, DEVOLUCION).
func (s *MovementService) ListByType(ctx context.Context, kind string) ([]StockMovement, error) {
	var out []StockMovement
	if err := s.c.get(ctx, "/movimientos-inventario/tipo/"+url.PathEscape(kind), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create records a movement.
func (s *MovementService) Create(ctx context.Context, m StockMovement) (*StockMovement, error) {
	var out StockMovement
	if err := s.c.post(ctx, "/movimientos-inventario", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a movement.
func (s *MovementService) Update(ctx context.Context, id int64, m StockMovement) (*StockMovement, error) {
	var out StockMovement
	if err := s.c.put(ctx, fmt.Sprintf("/movimientos-inventario/%d", id), m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a movement.
func (s *MovementService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/movimientos-inventario/%d", id))
}

// Kardex returns a product's movement history with current stock levels.
func (s *MovementService) Kardex(ctx context.Context, productID int64) (*Kardex, error) {
	var out Kardex
	if err := s.c.get(ctx, fmt.Sprintf("/movimientos-inventario/kardex/%d", productID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
