package planner

import (
	"errors"
	"fmt"
)

var (
	ErrQuantityRequired = errors.New("required quantity must be greater than zero")
	ErrExceedsStock     = errors.New("inventory quantity exceeds available central stock")
	ErrNegativeQuantity = errors.New("quantities cannot be negative")
	ErrZeroPurchase     = errors.New("quantity to buy must be greater than zero while stock cannot cover the request")
	ErrSplitNotApproved = errors.New("split fulfillment is pending manager approval")
	ErrNothingToRelease = errors.New("plan has no inventory portion to release")
)

// Plan is the fulfillment split for one request: how much comes out of
// central stock and how much is bought from a vendor.
type Plan struct {
	FromInventory int `json:"from_inventory"`
	ToBuy         int `json:"to_buy"`
}

// TotalState classifies FromInventory+ToBuy against the required quantity.
type TotalState int

const (
	Deficit TotalState = iota
	Exact
	Surplus
)

func (t TotalState) String() string {
	switch t {
	case Deficit:
		return "deficit"
	case Exact:
		return "exact"
	case Surplus:
		return "surplus"
	}
	return fmt.Sprintf("TotalState(%d)", int(t))
}

// Default derives the initial split from the required quantity and the
// current central stock. Partial stock is only released into the plan
// once the split has been approved; before that the whole quantity goes
// to purchase so that no stock is promised without a manager's sign-off.
func Default(required, availableStock int, splitApproved bool) Plan {
	if availableStock >= required {
		return Plan{FromInventory: required, ToBuy: 0}
	}
	if availableStock > 0 && splitApproved {
		return Plan{FromInventory: availableStock, ToBuy: required - availableStock}
	}
	return Plan{FromInventory: 0, ToBuy: required}
}

// Load returns the persisted plan verbatim when one exists, so that a
// data refresh never clobbers quantities a user already edited. Defaults
// are only computed for a comparison that has never been saved.
func Load(required, availableStock int, persisted Plan, splitApproved bool) Plan {
	if persisted.FromInventory > 0 || persisted.ToBuy > 0 {
		return persisted
	}
	return Default(required, availableStock, splitApproved)
}

// Classify returns the deficit/exact/surplus state and the gap size.
// Surplus is acceptable (extra goes to stock); deficit is a blocking
// warning for submission.
func Classify(required int, p Plan) (TotalState, int) {
	total := p.FromInventory + p.ToBuy
	switch {
	case total < required:
		return Deficit, required - total
	case total > required:
		return Surplus, total - required
	}
	return Exact, 0
}

// Validate checks a user-edited plan against the hard constraints. The
// advisory deficit/surplus classification is not enforced here except
// for the zero-purchase case, which can never fulfill the request.
func Validate(required, availableStock int, p Plan) error {
	if required <= 0 {
		return ErrQuantityRequired
	}
	if p.FromInventory < 0 || p.ToBuy < 0 {
		return ErrNegativeQuantity
	}
	if p.FromInventory > availableStock {
		return ErrExceedsStock
	}
	if p.FromInventory < required && p.ToBuy <= 0 {
		return ErrZeroPurchase
	}
	return nil
}

// WithInventory applies a user override of the inventory portion,
// clamping it into [0, availableStock] and raising the purchase portion
// to at least the remaining minimum.
func WithInventory(required, availableStock int, p Plan, fromInventory int) Plan {
	if fromInventory < 0 {
		fromInventory = 0
	}
	if fromInventory > availableStock {
		fromInventory = availableStock
	}
	minimum := required - fromInventory
	if minimum < 0 {
		minimum = 0
	}
	toBuy := p.ToBuy
	if toBuy < minimum {
		toBuy = minimum
	}
	return Plan{FromInventory: fromInventory, ToBuy: toBuy}
}

// IsMixed reports whether the plan takes from stock and buys at the same
// time. Mixed plans need an explicit manager approval before the stock
// portion can be released.
func (p Plan) IsMixed() bool {
	return p.FromInventory > 0 && p.ToBuy > 0
}

// CanRelease gates the "release inventory now" action. The purchase
// portion of a mixed plan proceeds through the PO workflow regardless.
func CanRelease(p Plan, splitApproved bool) error {
	if p.FromInventory <= 0 {
		return ErrNothingToRelease
	}
	if p.IsMixed() && !splitApproved {
		return ErrSplitNotApproved
	}
	return nil
}
