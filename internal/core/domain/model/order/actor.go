package order

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Role identifies who is requesting a transition. The transition table gates
// every edge on the requester's role; the auth layer resolves the role before
// a request reaches the domain and the domain trusts that input.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleBuyer is the purchasing party of the order.
	RoleBuyer

	// RoleSeller is the party delivering the gig.
	RoleSeller

	// RoleSystem is a background actor: payment capture callbacks and
	// scheduled jobs act with this role.
	RoleSystem
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "unknown",
		RoleBuyer:   "buyer",
		RoleSeller:  "seller",
		RoleSystem:  "system",
	}
}

// Validate checks if the Role value is one of the declared roles.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire representation of the role ("buyer", "seller", "system").
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// RoleFromString parses a role from its wire representation.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"role is invalid",
		fmt.Errorf("%q is not a valid role", s),
	)
}

// Actor is the validated identity requesting a transition.
// Buyer and seller actors carry their user ID; the system actor carries none.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor creates a buyer or seller actor. The ID must be a valid UUID and
// the role must be RoleBuyer or RoleSeller; use NewSystemActor for background
// actors.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if role == RoleSystem {
		return Actor{}, errs.NewValueIsInvalidError("system actor must be created via NewSystemActor")
	}
	return Actor{id: id, role: role}, nil
}

// NewSystemActor creates the background system actor used by payment capture
// callbacks and scheduled jobs.
func NewSystemActor() Actor {
	return Actor{role: RoleSystem}
}

// RestoreActor reconstructs an actor from persistence. System actors carry no
// user ID; buyer and seller actors must.
func RestoreActor(role Role, id kernel.UUID) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if role == RoleSystem {
		return NewSystemActor(), nil
	}
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// ID returns the actor's user ID. Zero for the system actor.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// Validate checks that the actor carries a declared role and, for buyer and
// seller actors, a valid user ID.
func (a Actor) Validate() error {
	if err := a.role.Validate(); err != nil {
		return err
	}
	if a.role != RoleSystem {
		return a.id.Validate()
	}
	return nil
}
