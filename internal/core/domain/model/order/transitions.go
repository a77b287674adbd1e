package order

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"
)

// Action is a transition request verb. The pair (current status, action) is
// looked up in the transition table; there is exactly one table row per pair.
type Action int

const (
	// ActionUnknown represents an invalid or undefined action.
	ActionUnknown Action = iota

	// ActionAccept is the seller taking on a freshly created order.
	ActionAccept

	// ActionSubmitRequirements is the buyer providing the work requirements.
	ActionSubmitRequirements

	// ActionStart moves a paid order into work. Fired by the seller, or by
	// the system when the payment capture confirmation arrives.
	ActionStart

	// ActionDeliver is the seller submitting work, both the first delivery
	// and every resubmission after a revision request.
	ActionDeliver

	// ActionAcceptDelivery is the buyer explicitly accepting the delivery,
	// releasing escrow and completing the order.
	ActionAcceptDelivery

	// ActionRequestRevision is the buyer sending a delivery back for rework.
	ActionRequestRevision

	// ActionAwaitReview is the system parking a completed order until the
	// buyer submits a review. Auto-fired on completion when no review exists.
	ActionAwaitReview

	// ActionFinalizeReview settles a waitingReview order back to completed
	// once the buyer's review has been created.
	ActionFinalizeReview

	// ActionCancel is the business-level cancellation. Buyers may cancel any
	// non-final order; sellers only once the delivery deadline has passed.
	ActionCancel
)

func getActionStrings() map[Action]string {
	return map[Action]string{
		ActionUnknown:            "unknown",
		ActionAccept:             "accept",
		ActionSubmitRequirements: "submit-requirements",
		ActionStart:              "start",
		ActionDeliver:            "deliver",
		ActionAcceptDelivery:     "accept-delivery",
		ActionRequestRevision:    "request-revision",
		ActionAwaitReview:        "await-review",
		ActionFinalizeReview:     "finalize-review",
		ActionCancel:             "cancel",
	}
}

// String returns the wire representation of the action, e.g. "accept-delivery".
func (a Action) String() string {
	if str, ok := getActionStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the Action value is one of the declared actions.
func (a Action) Validate() error {
	if a == ActionUnknown {
		return errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%d is not a valid action", a))
	}
	if _, ok := getActionStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// ActionFromString parses an action from its wire representation. Used by the
// generic advance-status endpoint.
func ActionFromString(s string) (Action, error) {
	for action, str := range getActionStrings() {
		if str == s && action != ActionUnknown {
			return action, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause(
		"action is invalid",
		fmt.Errorf("%q is not a valid action", s),
	)
}

// InvalidTransitionError is returned when a transition request does not match
// any row of the transition table: either the action is not available from the
// current status, or the requesting role is not allowed to perform it. The
// message always names the state/actor combination that would be required.
type InvalidTransitionError struct {
	From   Status
	Action Action
	Role   Role
}

func (e *InvalidTransitionError) Error() string {
	key := transitionKey{from: e.From, action: e.Action}
	if rule, ok := transitionTable()[key]; ok {
		return fmt.Sprintf(
			"invalid transition: %q on a %q order requires role %s, got %s",
			e.Action, e.From, roleList(rule.roles), e.Role,
		)
	}

	allowed := actionsFrom(e.From)
	if len(allowed) == 0 {
		return fmt.Sprintf("invalid transition: %q is not allowed, a %q order is final", e.Action, e.From)
	}
	return fmt.Sprintf(
		"invalid transition: %q is not allowed on a %q order, allowed actions are: %s",
		e.Action, e.From, strings.Join(allowed, ", "),
	)
}

// GuardFailedError is returned when a transition matched a table row but its
// guard rejected the request: missing payload, unpaid order, exhausted
// revision allowance, premature seller cancellation.
type GuardFailedError struct {
	Action Action
	Reason string
}

func (e *GuardFailedError) Error() string {
	if e.Action == ActionUnknown {
		return fmt.Sprintf("guard failed: %s", e.Reason)
	}
	return fmt.Sprintf("guard failed for %q: %s", e.Action, e.Reason)
}

// transitionKey identifies one row of the transition table.
type transitionKey struct {
	from   Status
	action Action
}

// transitionRule is one row of the allowed-transition graph: the target
// status, the roles permitted to request it and an optional guard evaluated
// against the order, the actor and the payload.
type transitionRule struct {
	to    Status
	roles []Role
	guard func(o *Order, actor Actor, payload Payload, now time.Time) error
}

func (r transitionRule) allowsRole(role Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// transitionTable is the single source of truth for the order lifecycle.
// A transition request whose (from, action, role) does not match a row fails
// with InvalidTransitionError; there are no implicit fallbacks anywhere else
// in the codebase.
func transitionTable() map[transitionKey]transitionRule {
	table := map[transitionKey]transitionRule{
		{StatusCreated, ActionAccept}: {
			to:    StatusAccepted,
			roles: []Role{RoleSeller},
		},
		{StatusAccepted, ActionSubmitRequirements}: {
			to:    StatusRequirementsSubmitted,
			roles: []Role{RoleBuyer},
			guard: requireRequirements,
		},
		{StatusRequirementsSubmitted, ActionStart}: {
			to:    StatusStarted,
			roles: []Role{RoleSeller, RoleSystem},
			guard: requirePaid,
		},
		{StatusStarted, ActionDeliver}: {
			to:    StatusDelivered,
			roles: []Role{RoleSeller},
			guard: requireDescription,
		},
		{StatusDelivered, ActionAcceptDelivery}: {
			to:    StatusCompleted,
			roles: []Role{RoleBuyer},
		},
		{StatusDelivered, ActionRequestRevision}: {
			to:    StatusRequestedRevision,
			roles: []Role{RoleBuyer},
			guard: requireRevisionAvailable,
		},
		{StatusRequestedRevision, ActionDeliver}: {
			to:    StatusDelivered,
			roles: []Role{RoleSeller},
			guard: requireDescription,
		},
		{StatusCompleted, ActionAwaitReview}: {
			to:    StatusWaitingReview,
			roles: []Role{RoleSystem},
		},
		{StatusWaitingReview, ActionFinalizeReview}: {
			to:    StatusCompleted,
			roles: []Role{RoleBuyer},
		},
	}

	// Cancellation is available from every non-final state. Buyers may always
	// cancel; sellers only once the deadline has passed.
	for status := range getStatusStrings() {
		if status == StatusUnknown || status.IsFinal() {
			continue
		}
		table[transitionKey{status, ActionCancel}] = transitionRule{
			to:    StatusCancelled,
			roles: []Role{RoleBuyer, RoleSeller},
			guard: requireCancellable,
		}
	}

	return table
}

func requireRequirements(_ *Order, _ Actor, payload Payload, _ time.Time) error {
	if strings.TrimSpace(payload.Requirements) == "" {
		return &GuardFailedError{Action: ActionSubmitRequirements, Reason: "requirements text must not be empty"}
	}
	return nil
}

func requirePaid(o *Order, _ Actor, _ Payload, _ time.Time) error {
	if o.paymentStatus != PaymentPaid {
		return &GuardFailedError{
			Action: ActionStart,
			Reason: fmt.Sprintf("payment must be captured before work starts, payment status is %q", o.paymentStatus),
		}
	}
	return nil
}

func requireDescription(_ *Order, _ Actor, payload Payload, _ time.Time) error {
	if strings.TrimSpace(payload.Description) == "" {
		return &GuardFailedError{Action: ActionDeliver, Reason: "delivery description must not be empty"}
	}
	return nil
}

func requireRevisionAvailable(o *Order, _ Actor, payload Payload, _ time.Time) error {
	if strings.TrimSpace(payload.Reason) == "" {
		return &GuardFailedError{Action: ActionRequestRevision, Reason: "revision reason must not be empty"}
	}
	if err := o.revisionsAllowed.CheckAvailable(o.revisionsUsed); err != nil {
		return &GuardFailedError{Action: ActionRequestRevision, Reason: err.Error()}
	}
	return nil
}

func requireCancellable(o *Order, actor Actor, _ Payload, now time.Time) error {
	if actor.Role() == RoleSeller && !o.IsLate(now) {
		return &GuardFailedError{
			Action: ActionCancel,
			Reason: "seller may only cancel after the delivery deadline has passed",
		}
	}
	return nil
}

// validateTransitionGraph checks the table for completeness: every declared
// status must either have at least one outgoing edge or be final, and every
// rule must point at a valid status and carry at least one role.
func validateTransitionGraph() error {
	table := transitionTable()

	outgoing := make(map[Status]int)
	for key, rule := range table {
		if err := key.from.Validate(); err != nil {
			return fmt.Errorf("transition from invalid status: %w", err)
		}
		if err := rule.to.Validate(); err != nil {
			return fmt.Errorf("transition %q from %q targets invalid status: %w", key.action, key.from, err)
		}
		if err := key.action.Validate(); err != nil {
			return fmt.Errorf("transition from %q uses invalid action: %w", key.from, err)
		}
		if len(rule.roles) == 0 {
			return fmt.Errorf("transition %q from %q allows no roles", key.action, key.from)
		}
		outgoing[key.from]++
	}

	for status := range getStatusStrings() {
		if status == StatusUnknown {
			continue
		}
		if outgoing[status] == 0 && !status.IsFinal() {
			return fmt.Errorf("status %q has no outgoing transitions and is not final", status)
		}
	}

	return nil
}

func init() {
	if err := validateTransitionGraph(); err != nil {
		panic(fmt.Sprintf("order transition table is inconsistent: %v", err))
	}
}

func actionsFrom(from Status) []string {
	var actions []string
	for key := range transitionTable() {
		if key.from == from {
			actions = append(actions, key.action.String())
		}
	}
	sort.Strings(actions)
	return actions
}

func roleList(roles []Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}
	sort.Strings(names)
	return strings.Join(names, " or ")
}
