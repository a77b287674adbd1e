// Package guard provides the constructor-guard pattern used by domain objects,
// commands and queries to detect zero-value instances that bypassed their
// designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is provided for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor function. A zero-value guard fails validation, which lets
// value objects and commands reject direct struct initialization.
//
// Example:
//
//	type SubmitReviewCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewSubmitReviewCommand(orderID kernel.UUID) (SubmitReviewCommand, error) {
//	    return SubmitReviewCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c SubmitReviewCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as properly
// constructed. Call it only from constructor functions.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
