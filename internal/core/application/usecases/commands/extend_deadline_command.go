package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrExtendDeadlineCommandIsNotConstructed = errors.New(
	"ExtendDeadlineCommand must be created via NewExtendDeadlineCommand constructor",
)

// ExtendDeadlineCommand is the buyer's request to move the delivery deadline
// forward by a number of days, optionally with a reason recorded in the audit
// log. Range checks happen in the domain when the command is handled.
type ExtendDeadlineCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          order.Actor
	additionalDays int
	reason         string

	guard guard.ConstructorGuard
}

// NewExtendDeadlineCommand creates a deadline extension request.
func NewExtendDeadlineCommand(
	orderID kernel.UUID,
	actor order.Actor,
	additionalDays int,
	reason string,
) (ExtendDeadlineCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
	); err != nil {
		return ExtendDeadlineCommand{}, err
	}

	return ExtendDeadlineCommand{
		orderID:        orderID,
		actor:          actor,
		additionalDays: additionalDays,
		reason:         reason,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExtendDeadlineCommand) Validate() error {
	return c.guard.Validate(ErrExtendDeadlineCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c ExtendDeadlineCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the party requesting the extension.
func (c ExtendDeadlineCommand) Actor() order.Actor {
	return c.actor
}

// AdditionalDays returns how many days to add to the deadline.
func (c ExtendDeadlineCommand) AdditionalDays() int {
	return c.additionalDays
}

// Reason returns the optional justification recorded in the audit log.
func (c ExtendDeadlineCommand) Reason() string {
	return c.reason
}
