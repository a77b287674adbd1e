package order

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
)

// Bounds on buyer-initiated deadline extensions. Each extension must add
// between MinExtensionDays and MaxExtensionDays; the sum of all extensions on
// one order may never exceed MaxTotalExtensionDays. The total cap is a policy
// decision: the number of extension calls is not limited, the added time is.
const (
	MinExtensionDays      = 1
	MaxExtensionDays      = 30
	MaxTotalExtensionDays = 90
)

// ErrTimelineIsNotConstructed is returned when a Timeline was not created
// through NewTimeline or RestoreTimeline.
var ErrTimelineIsNotConstructed = errors.New("Timeline must be created via NewTimeline or RestoreTimeline")

// Timeline is the delivery deadline of an accepted order.
//
// The deadline is scheduled once, when the seller accepts: acceptance time
// plus the package delivery days. Afterwards it only moves forward; the
// original deadline is kept as an immutable audit reference, so
// deliveryDate >= deliveryDateOriginal always holds.
type Timeline struct {
	deliveryDate         time.Time
	deliveryDateOriginal time.Time
	extendedDays         int

	isConstructed bool
}

// NewTimeline schedules the delivery deadline at acceptedAt plus deliveryDays.
// deliveryDays must be positive.
func NewTimeline(acceptedAt time.Time, deliveryDays int) (Timeline, error) {
	if deliveryDays <= 0 {
		return Timeline{}, errs.NewValueIsInvalidError("delivery days must be greater than 0")
	}
	deadline := acceptedAt.AddDate(0, 0, deliveryDays)
	return Timeline{
		deliveryDate:         deadline,
		deliveryDateOriginal: deadline,
		isConstructed:        true,
	}, nil
}

// RestoreTimeline reconstructs a timeline from persistence.
// The current deadline must not precede the original one.
func RestoreTimeline(deliveryDate, deliveryDateOriginal time.Time, extendedDays int) (Timeline, error) {
	if deliveryDate.Before(deliveryDateOriginal) {
		return Timeline{}, errs.NewValueIsInvalidError("delivery date precedes the original deadline")
	}
	if extendedDays < 0 {
		return Timeline{}, errs.NewValueIsInvalidError("extended days is negative")
	}
	return Timeline{
		deliveryDate:         deliveryDate,
		deliveryDateOriginal: deliveryDateOriginal,
		extendedDays:         extendedDays,
		isConstructed:        true,
	}, nil
}

// Validate checks constructor usage.
func (t Timeline) Validate() error {
	if !t.isConstructed {
		return ErrTimelineIsNotConstructed
	}
	return nil
}

// Extend returns a timeline with the deadline moved forward by additionalDays.
// additionalDays must be in [MinExtensionDays, MaxExtensionDays], and the
// order's accumulated extensions must stay within MaxTotalExtensionDays.
// Extensions are additive; a timeline never shrinks.
func (t Timeline) Extend(additionalDays int) (Timeline, error) {
	if additionalDays < MinExtensionDays || additionalDays > MaxExtensionDays {
		return Timeline{}, errs.NewValueIsOutOfRangeError(
			"extension days", additionalDays, MinExtensionDays, MaxExtensionDays,
		)
	}
	if t.extendedDays+additionalDays > MaxTotalExtensionDays {
		return Timeline{}, errs.NewValueIsOutOfRangeError(
			"total extension days", t.extendedDays+additionalDays, MinExtensionDays, MaxTotalExtensionDays,
		)
	}

	extended := t
	extended.deliveryDate = t.deliveryDate.AddDate(0, 0, additionalDays)
	extended.extendedDays = t.extendedDays + additionalDays
	return extended, nil
}

// IsLate reports whether now is past the deadline. The order combines this
// with its status: completed and cancelled orders are never late.
func (t Timeline) IsLate(now time.Time) bool {
	return now.After(t.deliveryDate)
}

// DeliveryDate returns the current deadline.
func (t Timeline) DeliveryDate() time.Time {
	return t.deliveryDate
}

// DeliveryDateOriginal returns the deadline as first scheduled on acceptance.
func (t Timeline) DeliveryDateOriginal() time.Time {
	return t.deliveryDateOriginal
}

// ExtendedDays returns the total days added across all extensions.
func (t Timeline) ExtendedDays() int {
	return t.extendedDays
}
