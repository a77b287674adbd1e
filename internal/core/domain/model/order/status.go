package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of a marketplace order.
//
// The full lifecycle:
//
//	created ──> accepted ──> requirementsSubmitted ──> started ──> delivered ──> completed ──> waitingReview
//	                                                                  │  ▲                         │
//	                                                                  ▼  │                         ▼
//	                                                         requestedRevision                 completed
//
// plus `cancelled`, reachable from every state except completed and cancelled.
// Which transitions are allowed, by whom and under which guard is defined by
// the transition table in transitions.go; Status itself only provides identity,
// string conversion and the canonical progress ordering.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusCreated is the initial status assigned at purchase time,
	// before the seller has accepted the order.
	StatusCreated

	// StatusAccepted indicates the seller accepted the order.
	// Accepting schedules the delivery deadline.
	StatusAccepted

	// StatusRequirementsSubmitted indicates the buyer provided the work
	// requirements. The order waits here until payment is captured.
	StatusRequirementsSubmitted

	// StatusStarted indicates payment was captured and the seller is working.
	StatusStarted

	// StatusDelivered indicates the seller submitted a delivery for buyer review.
	StatusDelivered

	// StatusRequestedRevision indicates the buyer sent the delivery back for rework.
	StatusRequestedRevision

	// StatusCompleted indicates the buyer accepted the delivery. Escrow is
	// released; the order is frozen except for the one-time review.
	StatusCompleted

	// StatusWaitingReview indicates a completed order awaiting the buyer's review.
	StatusWaitingReview

	// StatusCancelled indicates the order was cancelled. Terminal.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:               "unknown",
		StatusCreated:               "created",
		StatusAccepted:              "accepted",
		StatusRequirementsSubmitted: "requirementsSubmitted",
		StatusStarted:               "started",
		StatusDelivered:             "delivered",
		StatusRequestedRevision:     "requestedRevision",
		StatusCompleted:             "completed",
		StatusWaitingReview:         "waitingReview",
		StatusCancelled:             "cancelled",
	}
}

// progressOrdering is the canonical status ordering used only for progress
// display. It is not consulted for transition validation; the transition table
// is authoritative. Cancelled is deliberately absent: a cancelled order keeps
// reporting the stage it had reached.
func progressOrdering() []Status {
	return []Status{
		StatusCreated,
		StatusAccepted,
		StatusRequirementsSubmitted,
		StatusStarted,
		StatusDelivered,
		StatusRequestedRevision,
		StatusCompleted,
		StatusWaitingReview,
	}
}

// Validate checks if the Status value is one of the declared lifecycle states.
// StatusUnknown (0) and any other values are invalid. Used when reconstructing
// orders from persistence or parsing external input.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire/name representation of the status, e.g.
// "requirementsSubmitted". Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a status from its wire representation.
// Returns an error for unrecognized or "unknown" values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// IsFinal reports whether the status freezes the order. Completed and
// cancelled orders only admit the one-time review (completed side) and the
// admin note; cancellation of such orders is always rejected.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// progressIndex returns the 0-based position of the status in the canonical
// progress ordering. ok is false for statuses outside the ordering (cancelled,
// unknown).
func (s Status) progressIndex() (int, bool) {
	for i, status := range progressOrdering() {
		if status == s {
			return i, true
		}
	}
	return 0, false
}
