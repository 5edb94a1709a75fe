package status

import "errors"

// Request / cost comparison statuses. A request and its cost comparison
// move through these together; the split-fulfillment approval is an
// orthogonal flag and not part of this enum.
const (
	Draft              = "draft"
	ReadyForCC         = "ready_for_cc"
	Recheck            = "recheck"
	CCPending          = "cc_pending"
	CCRejected         = "cc_rejected"
	Approved           = "approved"
	PendingPO          = "pending_po"
	ReadyForPO         = "ready_for_po"
	ReadyForDelivery   = "ready_for_delivery"
	DeliveryProcessing = "delivery_processing"
	Delivered          = "delivered"
)

// Direct actions skip cost comparison entirely.
const (
	DirectActionPO       = "po"
	DirectActionDelivery = "delivery"
	DirectActionAll      = "all"
)

var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("cost comparison is not editable in this status")
	ErrNoQuotes          = errors.New("add at least one vendor quote before submitting")
	ErrNoVendorSelected  = errors.New("a final vendor must be selected to approve")
	ErrUnknownAction     = errors.New("unknown direct action")
)

var transitions = map[string][]string{
	Draft:              {ReadyForCC, Recheck, CCPending, ReadyForPO, ReadyForDelivery},
	ReadyForCC:         {CCPending, Recheck},
	Recheck:            {CCPending, ReadyForCC},
	CCPending:          {Approved, CCRejected},
	CCRejected:         {CCPending},
	Approved:           {PendingPO, ReadyForDelivery},
	PendingPO:          {ReadyForPO},
	ReadyForPO:         {ReadyForDelivery},
	ReadyForDelivery:   {DeliveryProcessing},
	DeliveryProcessing: {Delivered},
	Delivered:          {},
}

func Valid(s string) bool {
	_, ok := transitions[s]
	return ok
}

func IsTerminal(s string) bool {
	return s == Delivered
}

// Editable reports whether the cost comparison can still be modified.
// Saving in an editable status never changes the status.
func Editable(s string) bool {
	switch s {
	case Draft, ReadyForCC, Recheck, CCRejected:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	targets, ok := transitions[from]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates a plain status move with no extra guards.
func Transition(from, to string) (string, error) {
	if !Valid(from) || !Valid(to) {
		return from, ErrUnknownStatus
	}
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	return to, nil
}

// Submit moves an editable cost comparison to cc_pending. Submitting with
// zero quotes is rejected before any mutation happens.
func Submit(current string, quoteCount int) (string, error) {
	if !Editable(current) {
		return current, ErrNotEditable
	}
	if quoteCount == 0 {
		return current, ErrNoQuotes
	}
	return CCPending, nil
}

// Review resolves a pending cost comparison. Approval requires that the
// manager picked a vendor from the existing quote list; rejection loops
// the comparison back to an editable state.
func Review(current string, approve bool, hasSelectedVendor bool) (string, error) {
	if current != CCPending {
		return current, ErrInvalidTransition
	}
	if !approve {
		return CCRejected, nil
	}
	if !hasSelectedVendor {
		return current, ErrNoVendorSelected
	}
	return Approved, nil
}

// DirectTarget maps a direct-action hint to the status it fast-paths to.
// "all" offers both paths; the caller picks PO first.
func DirectTarget(action string) (string, error) {
	switch action {
	case DirectActionPO, DirectActionAll:
		return ReadyForPO, nil
	case DirectActionDelivery:
		return ReadyForDelivery, nil
	}
	return "", ErrUnknownAction
}
