package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand requests one lifecycle transition on an order:
// the acting party, the action verb and the optional payload the action's
// guard reads (requirements text, delivery description, revision reason).
//
// The same command backs both the dedicated endpoints (accept, deliver,
// cancel, ...) and the generic advance-status endpoint; the transition table
// decides what is allowed either way.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	action  order.Action
	payload order.Payload

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition request. The order ID, actor
// and action must be valid; whether the combination is allowed is decided by
// the state machine when the command is handled.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actor order.Actor,
	action order.Action,
	payload order.Payload,
) (TransitionOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		action.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		actor:   actor,
		action:  action,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the party requesting the transition.
func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

// Action returns the requested transition verb.
func (c TransitionOrderCommand) Action() order.Action {
	return c.action
}

// Payload returns the optional data attached to the request.
func (c TransitionOrderCommand) Payload() order.Payload {
	return c.payload
}
