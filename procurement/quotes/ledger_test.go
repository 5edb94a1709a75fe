package quotes

import (
	"errors"
	"testing"
)

func fptr(f float64) *float64 { return &f }

func TestAddRejectsDuplicateVendor(t *testing.T) {
	l := NewLedger(nil)
	if err := l.AddOrUpdate(Quote{VendorID: 1, UnitPrice: 100, Uom: "pcs"}, -1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	err := l.AddOrUpdate(Quote{VendorID: 1, UnitPrice: 90, Uom: "pcs"}, -1)
	if !errors.Is(err, ErrDuplicateVendor) {
		t.Errorf("expected ErrDuplicateVendor, got %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("list length changed on rejected add: %d", l.Len())
	}
}

func TestEditReplacesUnconditionally(t *testing.T) {
	l := NewLedger([]Quote{
		{VendorID: 1, UnitPrice: 100, Uom: "pcs"},
		{VendorID: 2, UnitPrice: 110, Uom: "pcs"},
	})

	// The vendor may be changed in edit mode.
	if err := l.AddOrUpdate(Quote{VendorID: 3, UnitPrice: 95, Uom: "pcs"}, 1); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got := l.Quotes()
	if got[1].VendorID != 3 {
		t.Errorf("expected vendor 3 at index 1, got %d", got[1].VendorID)
	}
	if got[0].VendorID != 1 {
		t.Errorf("other entries must not move, got %d at index 0", got[0].VendorID)
	}
}

func TestAddValidation(t *testing.T) {
	l := NewLedger(nil)

	if err := l.AddOrUpdate(Quote{UnitPrice: 10, Uom: "pcs"}, -1); !errors.Is(err, ErrVendorRequired) {
		t.Errorf("expected ErrVendorRequired, got %v", err)
	}
	if err := l.AddOrUpdate(Quote{VendorID: 1, UnitPrice: -1, Uom: "pcs"}, -1); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
	if err := l.AddOrUpdate(Quote{VendorID: 1, UnitPrice: 10}, -1); !errors.Is(err, ErrUnitRequired) {
		t.Errorf("expected ErrUnitRequired, got %v", err)
	}
	if err := l.AddOrUpdate(Quote{VendorID: 9, UnitPrice: 10, Uom: "pcs"}, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("rejected quotes must not be stored, got %d", l.Len())
	}
}

func TestAmountDefaultsToOne(t *testing.T) {
	l := NewLedger(nil)
	if err := l.AddOrUpdate(Quote{VendorID: 1, UnitPrice: 10, Uom: "pcs"}, -1); err != nil {
		t.Fatal(err)
	}
	if got := l.Quotes()[0].Amount; got != 1 {
		t.Errorf("expected amount 1, got %d", got)
	}
}

func TestBlankPercentagesStayAbsent(t *testing.T) {
	l := NewLedger(nil)
	err := l.AddOrUpdate(Quote{
		VendorID:        1,
		UnitPrice:       10,
		Uom:             "pcs",
		DiscountPercent: fptr(0),
		GSTPercent:      fptr(0),
	}, -1)
	if err != nil {
		t.Fatal(err)
	}
	q := l.Quotes()[0]
	if q.DiscountPercent != nil || q.GSTPercent != nil {
		t.Errorf("zero percentages must be stored as absent, got %+v", q)
	}
}

func TestRemoveKeepsRemainingEntries(t *testing.T) {
	l := NewLedger([]Quote{
		{VendorID: 1, UnitPrice: 100, Uom: "pcs"},
		{VendorID: 2, UnitPrice: 110, Uom: "pcs"},
		{VendorID: 3, UnitPrice: 120, Uom: "pcs"},
	})

	if !l.Remove(2) {
		t.Fatal("expected removal to succeed")
	}
	got := l.Quotes()
	if len(got) != 2 || got[0].VendorID != 1 || got[1].VendorID != 3 {
		t.Errorf("unexpected list after removal: %+v", got)
	}
	if l.Remove(2) {
		t.Error("second removal of the same vendor should report false")
	}
}
