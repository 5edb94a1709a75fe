package planner

import (
	"errors"
	"testing"
)

func TestDefaultFullStock(t *testing.T) {
	p := Default(10, 25, false)
	if p.FromInventory != 10 || p.ToBuy != 0 {
		t.Errorf("expected full fulfillment from stock, got %+v", p)
	}
}

func TestDefaultPartialStockUnapproved(t *testing.T) {
	// Partial stock must not be promised before the split is approved.
	p := Default(10, 4, false)
	if p.FromInventory != 0 {
		t.Errorf("expected no inventory release before approval, got %d", p.FromInventory)
	}
	if p.ToBuy != 10 {
		t.Errorf("expected full quantity to buy, got %d", p.ToBuy)
	}
}

func TestDefaultPartialStockApproved(t *testing.T) {
	p := Default(10, 4, true)
	if p.FromInventory != 4 || p.ToBuy != 6 {
		t.Errorf("expected split 4/6, got %+v", p)
	}
}

func TestDefaultNoStock(t *testing.T) {
	p := Default(10, 0, false)
	if p.FromInventory != 0 || p.ToBuy != 10 {
		t.Errorf("expected 0/10, got %+v", p)
	}
}

func TestDefaultInvariants(t *testing.T) {
	for required := 1; required <= 20; required++ {
		for stock := 0; stock <= 25; stock++ {
			for _, approved := range []bool{false, true} {
				p := Default(required, stock, approved)
				if p.FromInventory > stock {
					t.Fatalf("required=%d stock=%d: from_inventory %d exceeds stock", required, stock, p.FromInventory)
				}
				if p.FromInventory > required {
					t.Fatalf("required=%d stock=%d: from_inventory %d exceeds required", required, stock, p.FromInventory)
				}
				if stock >= required && p.ToBuy != 0 {
					t.Fatalf("required=%d stock=%d: expected nothing to buy, got %d", required, stock, p.ToBuy)
				}
			}
		}
	}
}

func TestLoadKeepsPersistedPlan(t *testing.T) {
	persisted := Plan{FromInventory: 3, ToBuy: 7}
	for _, stock := range []int{0, 3, 10, 100} {
		got := Load(10, stock, persisted, false)
		if got != persisted {
			t.Errorf("stock=%d: persisted plan clobbered, got %+v", stock, got)
		}
	}
}

func TestLoadComputesDefaultsForNewPlan(t *testing.T) {
	got := Load(10, 25, Plan{}, false)
	if got.FromInventory != 10 || got.ToBuy != 0 {
		t.Errorf("expected fresh defaults, got %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		plan  Plan
		state TotalState
		gap   int
	}{
		{Plan{FromInventory: 4, ToBuy: 4}, Deficit, 2},
		{Plan{FromInventory: 5, ToBuy: 5}, Exact, 0},
		{Plan{FromInventory: 5, ToBuy: 7}, Surplus, 2},
	}
	for _, tt := range tests {
		state, gap := Classify(10, tt.plan)
		if state != tt.state || gap != tt.gap {
			t.Errorf("Classify(10, %+v) = %v/%d, expected %v/%d", tt.plan, state, gap, tt.state, tt.gap)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(10, 5, Plan{FromInventory: 6, ToBuy: 4}); !errors.Is(err, ErrExceedsStock) {
		t.Errorf("expected ErrExceedsStock, got %v", err)
	}
	if err := Validate(10, 5, Plan{FromInventory: 5, ToBuy: 0}); !errors.Is(err, ErrZeroPurchase) {
		t.Errorf("expected ErrZeroPurchase, got %v", err)
	}
	if err := Validate(0, 5, Plan{FromInventory: 0, ToBuy: 1}); !errors.Is(err, ErrQuantityRequired) {
		t.Errorf("expected ErrQuantityRequired, got %v", err)
	}
	if err := Validate(10, 5, Plan{FromInventory: -1, ToBuy: 11}); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("expected ErrNegativeQuantity, got %v", err)
	}
	// Buying more than the minimum builds buffer stock and is fine.
	if err := Validate(10, 5, Plan{FromInventory: 5, ToBuy: 8}); err != nil {
		t.Errorf("surplus plan should validate, got %v", err)
	}
}

func TestWithInventoryClampsAndRaisesMinimum(t *testing.T) {
	p := WithInventory(10, 5, Plan{FromInventory: 5, ToBuy: 5}, 3)
	if p.FromInventory != 3 || p.ToBuy != 7 {
		t.Errorf("expected 3/7, got %+v", p)
	}

	p = WithInventory(10, 5, Plan{}, 9)
	if p.FromInventory != 5 {
		t.Errorf("expected clamp to available stock, got %d", p.FromInventory)
	}

	p = WithInventory(10, 5, Plan{FromInventory: 2, ToBuy: 12}, 4)
	if p.ToBuy != 12 {
		t.Errorf("voluntary surplus should be kept, got %d", p.ToBuy)
	}
}

func TestCanReleaseMixedPlanRequiresApproval(t *testing.T) {
	mixed := Plan{FromInventory: 5, ToBuy: 5}

	if err := CanRelease(mixed, false); !errors.Is(err, ErrSplitNotApproved) {
		t.Errorf("expected ErrSplitNotApproved, got %v", err)
	}
	if err := CanRelease(mixed, true); err != nil {
		t.Errorf("approved mixed plan should release, got %v", err)
	}
}

func TestCanReleasePureInventoryPlan(t *testing.T) {
	// A plan satisfied entirely from stock is not a split and needs no approval.
	if err := CanRelease(Plan{FromInventory: 10, ToBuy: 0}, false); err != nil {
		t.Errorf("pure inventory plan should release, got %v", err)
	}
	if err := CanRelease(Plan{FromInventory: 0, ToBuy: 10}, true); !errors.Is(err, ErrNothingToRelease) {
		t.Errorf("expected ErrNothingToRelease, got %v", err)
	}
}
