package quotes

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceDiscountThenGST(t *testing.T) {
	q := Quote{
		VendorID:        1,
		UnitPrice:       100,
		Uom:             "pcs",
		DiscountPercent: fptr(10),
		GSTPercent:      fptr(18),
	}

	p := Price(q, 5)

	if !p.PriceAfterDiscount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("price after discount = %s, expected 90", p.PriceAfterDiscount)
	}
	if !p.GSTAmount.Equal(decimal.RequireFromString("16.2")) {
		t.Errorf("gst amount = %s, expected 16.2", p.GSTAmount)
	}
	if !p.FinalUnitPrice.Equal(decimal.RequireFromString("106.2")) {
		t.Errorf("final unit price = %s, expected 106.2", p.FinalUnitPrice)
	}
	if !p.LineTotal.Equal(decimal.NewFromInt(531)) {
		t.Errorf("line total = %s, expected 531", p.LineTotal)
	}
}

func TestPriceWithoutOptionalPercentages(t *testing.T) {
	p := Price(Quote{VendorID: 1, UnitPrice: 50, Uom: "pcs"}, 2)
	if !p.FinalUnitPrice.Equal(decimal.NewFromInt(50)) {
		t.Errorf("final unit price = %s, expected 50", p.FinalUnitPrice)
	}
	if !p.LineTotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("line total = %s, expected 100", p.LineTotal)
	}
}

func TestEffectiveGSTSplitWinsOverLegacy(t *testing.T) {
	q := Quote{
		VendorID:    1,
		UnitPrice:   100,
		Uom:         "pcs",
		GSTPercent:  fptr(5),
		CGSTPercent: fptr(9),
		SGSTPercent: fptr(9),
	}
	if got := EffectiveGST(q); !got.Equal(decimal.NewFromInt(18)) {
		t.Errorf("effective gst = %s, expected 18 (split sum over legacy)", got)
	}
}

func TestEffectiveGSTLegacyFallback(t *testing.T) {
	q := Quote{VendorID: 1, UnitPrice: 100, Uom: "pcs", GSTPercent: fptr(12)}
	if got := EffectiveGST(q); !got.Equal(decimal.NewFromInt(12)) {
		t.Errorf("effective gst = %s, expected legacy 12", got)
	}

	if got := EffectiveGST(Quote{VendorID: 1}); !got.Equal(decimal.Zero) {
		t.Errorf("effective gst = %s, expected 0", got)
	}
}
