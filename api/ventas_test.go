package api

import (
	"errors"
	"testing"
)

func testProduct(id int64, price float64, stock int) Product {
	return Product{
		ID:           id,
		Name:         "Producto",
		CurrentStock: stock,
		SalePrice:    price,
		TenantID:     "farmacia-01",
	}
}

func TestSaleBuilderTotals(t *testing.T) {
	b := NewSaleBuilder(3, "farmacia-01")
	if err := b.Add(testProduct(1, 2.50, 100), 3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(testProduct(2, 10.90, 5), 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got := b.Total(); got != 29.30 {
		t.Errorf("Total() = %v, want 29.30", got)
	}

	sale, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sale.VendorID != 3 || sale.TenantID != "farmacia-01" {
		t.Errorf("sale header = %+v", sale)
	}
	if sale.PaymentMethod != PaymentCash || sale.Status != SaleCompleted {
		t.Errorf("defaults = %s/%s", sale.PaymentMethod, sale.Status)
	}
	if len(sale.Lines) != 2 {
		t.Fatalf("len(Lines) = %d", len(sale.Lines))
	}
	if sale.Lines[0].Subtotal != 7.50 || sale.Lines[1].Subtotal != 21.80 {
		t.Errorf("subtotals = %v, %v", sale.Lines[0].Subtotal, sale.Lines[1].Subtotal)
	}
	if sale.Total != 29.30 {
		t.Errorf("Total = %v", sale.Total)
	}
}

func TestSaleBuilderRejectsNonPositiveQuantity(t *testing.T) {
	b := NewSaleBuilder(1, "t1")
	for _, qty := range []int{0, -4} {
		if err := b.Add(testProduct(1, 1, 10), qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Add(qty=%d) = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if len(b.Lines()) != 0 {
		t.Errorf("rejected adds left %d lines", len(b.Lines()))
	}
}

func TestSaleBuilderChecksCumulativeStock(t *testing.T) {
	p := testProduct(1, 4.20, 5)
	b := NewSaleBuilder(1, "t1")

	if err := b.Add(p, 3); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	// 3 already reserved, only 2 left.
	if err := b.Add(p, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("second Add = %v, want ErrInsufficientStock", err)
	}
	if err := b.Add(p, 2); err != nil {
		t.Fatalf("Add within remaining stock: %v", err)
	}

	if got := b.Total(); got != 21.00 {
		t.Errorf("Total() = %v, want 21.00", got)
	}
}

func TestSaleBuilderEmptyBuild(t *testing.T) {
	if _, err := NewSaleBuilder(1, "t1").Build(); !errors.Is(err, ErrEmptySale) {
		t.Errorf("Build() = %v, want ErrEmptySale", err)
	}
}

func TestSaleBuilderPaymentMethodOverride(t *testing.T) {
	b := NewSaleBuilder(1, "t1").PaymentMethod("TARJETA")
	if err := b.Add(testProduct(1, 1, 1), 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sale, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sale.PaymentMethod != "TARJETA" {
		t.Errorf("PaymentMethod = %q", sale.PaymentMethod)
	}
}
