package quotes

import "github.com/shopspring/decimal"

// Pricing is the cost breakdown for one quote line. The order matters:
// the discount is applied first and GST is computed on the discounted
// base, never on the list price.
type Pricing struct {
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	GSTAmount          decimal.Decimal `json:"gst_amount"`
	FinalUnitPrice     decimal.Decimal `json:"final_unit_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

var hundred = decimal.NewFromInt(100)

// EffectiveGST resolves the dual GST representation: when CGST and SGST
// splits are present their sum wins; otherwise the legacy combined field
// applies. Returns 0 when neither is set.
func EffectiveGST(q Quote) decimal.Decimal {
	var split decimal.Decimal
	if q.CGSTPercent != nil {
		split = split.Add(decimal.NewFromFloat(*q.CGSTPercent))
	}
	if q.SGSTPercent != nil {
		split = split.Add(decimal.NewFromFloat(*q.SGSTPercent))
	}
	if split.IsPositive() {
		return split
	}
	if q.GSTPercent != nil {
		return decimal.NewFromFloat(*q.GSTPercent)
	}
	return decimal.Zero
}

// Price computes the cost breakdown for the given quantity.
func Price(q Quote, quantity int) Pricing {
	unitPrice := decimal.NewFromFloat(q.UnitPrice)

	discount := decimal.Zero
	if q.DiscountPercent != nil {
		discount = decimal.NewFromFloat(*q.DiscountPercent)
	}

	afterDiscount := unitPrice.Mul(decimal.NewFromInt(1).Sub(discount.Div(hundred)))
	gstAmount := afterDiscount.Mul(EffectiveGST(q).Div(hundred))
	finalUnit := afterDiscount.Add(gstAmount)

	return Pricing{
		PriceAfterDiscount: afterDiscount,
		GSTAmount:          gstAmount,
		FinalUnitPrice:     finalUnit,
		LineTotal:          finalUnit.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
