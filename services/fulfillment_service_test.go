package services

import (
	"errors"
	"testing"
	"time"

	"procure-app/procurement/planner"
)

func TestReleaseAmountDeductsExactInventoryPortion(t *testing.T) {
	plan := planner.Plan{FromInventory: 5, ToBuy: 5}

	got, err := releaseAmount(plan, true, nil)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if got != 5 {
		t.Errorf("expected deduction of exactly 5, got %d", got)
	}
}

func TestReleaseAmountIsOneShot(t *testing.T) {
	plan := planner.Plan{FromInventory: 5, ToBuy: 5}
	released := time.Now()

	// A second release attempt must be refused, not deduct again.
	if _, err := releaseAmount(plan, true, &released); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("expected ErrAlreadyReleased, got %v", err)
	}
}

func TestReleaseAmountRequiresSplitApproval(t *testing.T) {
	plan := planner.Plan{FromInventory: 5, ToBuy: 5}

	if _, err := releaseAmount(plan, false, nil); !errors.Is(err, planner.ErrSplitNotApproved) {
		t.Errorf("expected ErrSplitNotApproved, got %v", err)
	}
}

func TestReleaseAmountNeedsInventoryPortion(t *testing.T) {
	plan := planner.Plan{FromInventory: 0, ToBuy: 10}

	if _, err := releaseAmount(plan, true, nil); !errors.Is(err, planner.ErrNothingToRelease) {
		t.Errorf("expected ErrNothingToRelease, got %v", err)
	}
}
