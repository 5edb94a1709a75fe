package quotes

import (
	"errors"

	"procure-app/types"
)

var (
	ErrVendorRequired  = errors.New("vendor is required")
	ErrUnitRequired    = errors.New("unit is required")
	ErrNegativePrice   = errors.New("unit price cannot be negative")
	ErrDuplicateVendor = errors.New("a quote for this vendor already exists")
	ErrIndexOutOfRange = errors.New("quote index out of range")
)

// Quote is one vendor's price line. Optional percentages stay nil when
// the user left them blank or entered zero.
type Quote struct {
	VendorID        types.SnowflakeID
	UnitPrice       float64
	Amount          int
	Uom             string
	DiscountPercent *float64
	GSTPercent      *float64
	CGSTPercent     *float64
	SGSTPercent     *float64
}

// Ledger is the ordered, vendor-unique list of quotes for one request.
// Insertion order is display order; removal keeps the remaining entries
// untouched.
type Ledger struct {
	quotes []Quote
}

func NewLedger(existing []Quote) *Ledger {
	l := &Ledger{quotes: make([]Quote, len(existing))}
	copy(l.quotes, existing)
	return l
}

// AddOrUpdate appends the quote when editingIndex is -1, rejecting a
// vendor that is already quoted. With a valid index the entry at that
// position is replaced unconditionally, so the vendor may be changed.
func (l *Ledger) AddOrUpdate(q Quote, editingIndex int) error {
	if q.VendorID == 0 {
		return ErrVendorRequired
	}
	if q.UnitPrice < 0 {
		return ErrNegativePrice
	}
	if q.Uom == "" {
		return ErrUnitRequired
	}
	if q.Amount <= 0 {
		q.Amount = 1
	}
	q.DiscountPercent = normalizePercent(q.DiscountPercent)
	q.GSTPercent = normalizePercent(q.GSTPercent)
	q.CGSTPercent = normalizePercent(q.CGSTPercent)
	q.SGSTPercent = normalizePercent(q.SGSTPercent)

	if editingIndex < 0 {
		for _, existing := range l.quotes {
			if existing.VendorID == q.VendorID {
				return ErrDuplicateVendor
			}
		}
		l.quotes = append(l.quotes, q)
		return nil
	}

	if editingIndex >= len(l.quotes) {
		return ErrIndexOutOfRange
	}
	l.quotes[editingIndex] = q
	return nil
}

// Remove filters the vendor's quote out and reports whether it existed.
func (l *Ledger) Remove(vendorID types.SnowflakeID) bool {
	for i, q := range l.quotes {
		if q.VendorID == vendorID {
			l.quotes = append(l.quotes[:i], l.quotes[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Ledger) Contains(vendorID types.SnowflakeID) bool {
	for _, q := range l.quotes {
		if q.VendorID == vendorID {
			return true
		}
	}
	return false
}

func (l *Ledger) Len() int {
	return len(l.quotes)
}

// Quotes returns a copy of the list in display order.
func (l *Ledger) Quotes() []Quote {
	out := make([]Quote, len(l.quotes))
	copy(out, l.quotes)
	return out
}

// normalizePercent drops blank or non-positive optional percentages so
// they are stored as absent, not as zero.
func normalizePercent(p *float64) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}
