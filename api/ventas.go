package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
)

// Sale composition failures.
var (
	// ErrInvalidQuantity means a line was added with a non-positive quantity.
	ErrInvalidQuantity = errors.New("sale line quantity must be positive")
	// ErrInsufficientStock means the composed quantity exceeds the product's
	// known stock level.
	ErrInsufficientStock = errors.New("insufficient stock for sale line")
	// ErrEmptySale means Build was called with no lines.
	ErrEmptySale = errors.New("sale has no lines")
)

// SaleService wraps the sales endpoints.
type SaleService struct {
	c *Client
}

// List returns every sale visible to the caller.
func (s *SaleService) List(ctx context.Context) ([]Sale, error) {
	var out []Sale
	if err := s.c.get(ctx, "/ventas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one sale by ID.
func (s *SaleService) Get(ctx context.Context, id int64) (*Sale, error) {
	var out Sale
	if err := s.c.get(ctx, fmt.Sprintf("/ventas/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByVendor returns a vendor's sales.
func (s *SaleService) ListByVendor(ctx context.Context, vendorID int64) ([]Sale, error) {
	var out []Sale
	if err := s.c.get(ctx, fmt.Sprintf("/ventas/vendedor/%d", vendorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTenant returns a tenant's sales.
func (s *SaleService) ListByTenant(ctx context.Context, tenantID string) ([]Sale, error) {
	var out []Sale
	if err := s.c.get(ctx, "/ventas/tenant/"+url.PathEscape(tenantID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create submits a sale. Compose it with a [SaleBuilder] so line subtotals
// and the total are consistent.
func (s *SaleService) Create(ctx context.Context, sale Sale) (*Sale, error) {
	var out Sale
	if err := s.c.post(ctx, "/ventas", sale, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a sale.
func (s *SaleService) Update(ctx context.Context, id int64, sale Sale) (*Sale, error) {
	var out Sale
	if err := s.c.put(ctx, fmt.Sprintf("/ventas/%d", id), sale, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a sale.
func (s *SaleService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/ventas/%d", id))
}

// SaleBuilder composes a sale line by line against the stock levels the
// caller knows, computing each subtotal and the running total before
// anything reaches the server. The server still revalidates stock; the
// builder exists so a register can refuse an oversell immediately.
type SaleBuilder struct {
	vendorID      int64
	tenantID      string
	paymentMethod string
	status        string
	lines         []SaleLine
	reserved      map[int64]int
}

// NewSaleBuilder starts an empty completed-cash sale for the vendor.
func NewSaleBuilder(vendorID int64, tenantID string) *SaleBuilder {
	return &SaleBuilder{
		vendorID:      vendorID,
		tenantID:      tenantID,
		paymentMethod: PaymentCash,
		status:        SaleCompleted,
		reserved:      make(map[int64]int),
	}
}

// PaymentMethod overrides the default cash payment.
func (b *SaleBuilder) PaymentMethod(method string) *SaleBuilder {
	b.paymentMethod = method
	return b
}

// Add appends qty units of p at its sale price. The quantity is checked
// against p's current stock minus what this sale already reserves.
func (b *SaleBuilder) Add(p Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %d of %q", ErrInvalidQuantity, qty, p.Name)
	}
	if b.reserved[p.ID]+qty > p.CurrentStock {
		return fmt.Errorf("%w: %q has %d, sale needs %d",
			ErrInsufficientStock, p.Name, p.CurrentStock, b.reserved[p.ID]+qty)
	}

	b.reserved[p.ID] += qty
	b.lines = append(b.lines, SaleLine{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.SalePrice,
		Subtotal:  roundMoney(float64(qty) * p.SalePrice),
	})
	return nil
}

// Total returns the current sum of line subtotals.
func (b *SaleBuilder) Total() float64 {
	var total float64
	for _, l := range b.lines {
		total += l.Subtotal
	}
	return roundMoney(total)
}

// Lines returns a copy of the composed lines.
func (b *SaleBuilder) Lines() []SaleLine {
	out := make([]SaleLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Build returns the sale ready for [SaleService.Create].
func (b *SaleBuilder) Build() (Sale, error) {
	if len(b.lines) == 0 {
		return Sale{}, ErrEmptySale
	}
	return Sale{
		VendorID:      b.vendorID,
		Total:         b.Total(),
		PaymentMethod: b.paymentMethod,
		Status:        b.status,
		TenantID:      b.tenantID,
		Lines:         b.Lines(),
	}, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
