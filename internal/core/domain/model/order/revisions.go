package order

import (
	"fmt"
	"strconv"

	"marketplace/internal/pkg/errs"
)

// RevisionAllowance is the rework budget sold with the gig package: either a
// finite number of revisions or unlimited.
//
// Finite allowances are enforced: once the counter reaches the limit, further
// revision requests fail the transition guard with a descriptive reason. This
// is a deliberate policy decision; the allowance type keeps unlimited packages
// available for sellers who want to opt out of the cap.
type RevisionAllowance struct {
	limit     int
	unlimited bool

	isConstructed bool
}

// NewRevisionAllowance creates a finite allowance of limit revisions.
// limit must be 0 or greater; 0 means "no revisions included".
func NewRevisionAllowance(limit int) (RevisionAllowance, error) {
	if limit < 0 {
		return RevisionAllowance{}, errs.NewValueIsInvalidErrorWithCause(
			"revision limit is invalid",
			fmt.Errorf("%d is negative; use NewUnlimitedRevisionAllowance for unlimited packages", limit),
		)
	}
	return RevisionAllowance{limit: limit, isConstructed: true}, nil
}

// NewUnlimitedRevisionAllowance creates an allowance with no revision cap.
func NewUnlimitedRevisionAllowance() RevisionAllowance {
	return RevisionAllowance{unlimited: true, isConstructed: true}
}

// Validate checks constructor usage.
func (r RevisionAllowance) Validate() error {
	if !r.isConstructed {
		return errs.NewValueIsRequiredError(
			"RevisionAllowance must be created via NewRevisionAllowance or NewUnlimitedRevisionAllowance",
		)
	}
	return nil
}

// Unlimited reports whether the allowance has no cap.
func (r RevisionAllowance) Unlimited() bool {
	return r.unlimited
}

// Limit returns the finite revision cap. Meaningless when Unlimited is true.
func (r RevisionAllowance) Limit() int {
	return r.limit
}

// CheckAvailable reports whether another revision may be requested after
// used revisions have already been consumed. Returns nil for unlimited
// allowances; otherwise an error naming the exhausted budget.
func (r RevisionAllowance) CheckAvailable(used int) error {
	if r.unlimited {
		return nil
	}
	if used >= r.limit {
		return fmt.Errorf("revision allowance exhausted: %d of %d revisions already used", used, r.limit)
	}
	return nil
}

// String returns the allowance for display: the limit as a number, or
// "unlimited".
func (r RevisionAllowance) String() string {
	if r.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(r.limit)
}
