package status

import (
	"errors"
	"testing"
)

func TestSubmitRequiresQuotes(t *testing.T) {
	if _, err := Submit(Draft, 0); !errors.Is(err, ErrNoQuotes) {
		t.Errorf("expected ErrNoQuotes, got %v", err)
	}

	next, err := Submit(Draft, 2)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if next != CCPending {
		t.Errorf("expected cc_pending, got %s", next)
	}
}

func TestSubmitOnlyFromEditableStatus(t *testing.T) {
	for _, s := range []string{CCPending, Approved, Delivered} {
		if _, err := Submit(s, 3); !errors.Is(err, ErrNotEditable) {
			t.Errorf("submit from %s: expected ErrNotEditable, got %v", s, err)
		}
	}
	for _, s := range []string{Draft, ReadyForCC, Recheck, CCRejected} {
		if _, err := Submit(s, 3); err != nil {
			t.Errorf("submit from %s should succeed, got %v", s, err)
		}
	}
}

func TestReviewApproveRequiresVendor(t *testing.T) {
	if _, err := Review(CCPending, true, false); !errors.Is(err, ErrNoVendorSelected) {
		t.Errorf("expected ErrNoVendorSelected, got %v", err)
	}

	next, err := Review(CCPending, true, true)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if next != Approved {
		t.Errorf("expected approved, got %s", next)
	}
}

func TestReviewReject(t *testing.T) {
	next, err := Review(CCPending, false, false)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if next != CCRejected {
		t.Errorf("expected cc_rejected, got %s", next)
	}
	// A rejected comparison is editable again and can be resubmitted.
	if !Editable(next) {
		t.Error("cc_rejected must be editable")
	}
	if _, err := Submit(next, 1); err != nil {
		t.Errorf("resubmit after rejection failed: %v", err)
	}
}

func TestReviewOnlyFromPending(t *testing.T) {
	if _, err := Review(Draft, true, true); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDeliveryChain(t *testing.T) {
	chain := []string{Approved, PendingPO, ReadyForPO, ReadyForDelivery, DeliveryProcessing, Delivered}
	for i := 0; i < len(chain)-1; i++ {
		next, err := Transition(chain[i], chain[i+1])
		if err != nil {
			t.Fatalf("%s -> %s: %v", chain[i], chain[i+1], err)
		}
		if next != chain[i+1] {
			t.Fatalf("%s -> %s: got %s", chain[i], chain[i+1], next)
		}
	}
}

func TestDeliveredIsTerminal(t *testing.T) {
	if !IsTerminal(Delivered) {
		t.Error("delivered must be terminal")
	}
	for _, to := range []string{Draft, CCPending, DeliveryProcessing} {
		if _, err := Transition(Delivered, to); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("delivered -> %s: expected ErrInvalidTransition, got %v", to, err)
		}
	}
}

func TestNoBackwardsDeliveryTransitions(t *testing.T) {
	if CanTransition(ReadyForDelivery, PendingPO) {
		t.Error("delivery stage must not move back to pending_po")
	}
	if CanTransition(Approved, CCPending) {
		t.Error("approved must not move back to cc_pending")
	}
}

func TestDirectTarget(t *testing.T) {
	tests := []struct {
		action string
		target string
	}{
		{DirectActionPO, ReadyForPO},
		{DirectActionAll, ReadyForPO},
		{DirectActionDelivery, ReadyForDelivery},
	}
	for _, tt := range tests {
		got, err := DirectTarget(tt.action)
		if err != nil {
			t.Fatalf("DirectTarget(%s): %v", tt.action, err)
		}
		if got != tt.target {
			t.Errorf("DirectTarget(%s) = %s, expected %s", tt.action, got, tt.target)
		}
	}
	if _, err := DirectTarget("ship"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	if _, err := Transition("archived", Draft); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}
