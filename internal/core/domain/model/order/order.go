package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrPaymentAlreadyRefunded is returned when marking a refunded order paid.
	ErrPaymentAlreadyRefunded = errors.New("payment is already refunded")

	// ErrRefundRequiresCancelledOrder is returned when a refund is recorded
	// against an order that is not cancelled.
	ErrRefundRequiresCancelledOrder = errors.New("refund may only be recorded on a cancelled order")

	// ErrRefundRequiresCapturedPayment is returned when a refund is recorded
	// for a payment that was never captured.
	ErrRefundRequiresCapturedPayment = errors.New("refund requires a captured payment")

	// ErrTimelineNotScheduled is returned when the delivery deadline is read
	// or extended before the seller has accepted the order.
	ErrTimelineNotScheduled = errors.New("delivery deadline is not scheduled until the seller accepts")

	// ErrOnlyBuyerMayExtend is returned when someone other than the buyer
	// extends the delivery deadline.
	ErrOnlyBuyerMayExtend = errors.New("only the buyer may extend the delivery deadline")

	// ErrOrderFrozen is returned when a completed or cancelled order is
	// mutated outside the narrow operations still allowed on it.
	ErrOrderFrozen = errors.New("order is completed or cancelled and can no longer change")

	// ErrActorNotParticipant is returned when a buyer or seller actor does
	// not match the order's buyer or seller.
	ErrActorNotParticipant = errors.New("actor is not a participant of this order")
)

// Order is the aggregate root of a single purchased gig transaction between a
// buyer and a seller. It is mutated exclusively through table-validated
// transitions via Apply (plus the narrow MarkPaid/MarkRefunded payment hooks,
// the buyer's deadline extension and the admin-only note).
//
// Order maintains these invariants:
//   - Every status change matches a row of the transition table
//   - The status history is append-only
//   - revisionsUsed only increases
//   - The delivery deadline never moves backwards
//   - The price breakdown sums hold at cent precision
//
// The version field supports optimistic concurrency: the repository refuses
// to persist an order whose stored version differs from the one the aggregate
// was loaded with, so near-simultaneous transitions on the same order never
// both succeed.
type Order struct {
	id       kernel.UUID
	buyerID  kernel.UUID
	sellerID kernel.UUID
	gigID    kernel.UUID

	status        Status
	price         PriceBreakdown
	paymentStatus PaymentStatus

	createdAt    time.Time
	deliveryDays int
	timeline     *Timeline

	revisionsAllowed RevisionAllowance
	revisionsUsed    int

	history          []HistoryEntry
	progressOverride *int
	adminNote        string
	version          int

	isConstructed bool
}

// NewOrder creates an order at purchase time in status created. paymentStatus
// must be pending or paid, depending on the checkout policy. deliveryDays is
// the gig package's promised delivery window, applied to the deadline when the
// seller accepts. The buyer is recorded as the actor of the initial history
// entry.
func NewOrder(
	id, buyerID, sellerID, gigID kernel.UUID,
	price PriceBreakdown,
	paymentStatus PaymentStatus,
	deliveryDays int,
	revisionsAllowed RevisionAllowance,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusCreated,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setParticipants(buyerID, sellerID, gigID),
		o.setPrice(price),
		o.setInitialPaymentStatus(paymentStatus),
		o.setDeliveryDays(deliveryDays),
		o.setRevisionsAllowed(revisionsAllowed),
	); err != nil {
		return nil, err
	}

	o.createdAt = now
	buyer := Actor{id: buyerID, role: RoleBuyer}
	o.history = append(o.history, NewHistoryEntry(StatusCreated, buyer, now, Payload{}))

	return o, nil
}

// RestoreOrder reconstructs an order from persistence. Unlike NewOrder it
// accepts any declared status, an existing history and the stored version.
func RestoreOrder(
	id, buyerID, sellerID, gigID kernel.UUID,
	status Status,
	price PriceBreakdown,
	paymentStatus PaymentStatus,
	createdAt time.Time,
	deliveryDays int,
	timeline *Timeline,
	revisionsAllowed RevisionAllowance,
	revisionsUsed int,
	history []HistoryEntry,
	progressOverride *int,
	adminNote string,
	version int,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setParticipants(buyerID, sellerID, gigID),
		o.setPrice(price),
		status.Validate(),
		paymentStatus.Validate(),
		o.setDeliveryDays(deliveryDays),
		o.setRevisionsAllowed(revisionsAllowed),
	); err != nil {
		return nil, err
	}

	if timeline != nil {
		if err := timeline.Validate(); err != nil {
			return nil, err
		}
		t := *timeline
		o.timeline = &t
	}
	if revisionsUsed < 0 {
		return nil, errs.NewValueIsInvalidError("revisions used is negative")
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order version must be at least 1")
	}

	o.status = status
	o.paymentStatus = paymentStatus
	o.createdAt = createdAt
	o.revisionsUsed = revisionsUsed
	o.history = append(o.history, history...)
	if progressOverride != nil {
		p := *progressOverride
		o.progressOverride = &p
	}
	o.adminNote = adminNote
	o.version = version

	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. Repositories call this before persisting.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Apply executes one transition of the order state machine.
//
// The request is validated against the transition table: the (status, action)
// pair must match a row, the actor's role must be allowed by that row, and the
// row's guard must pass. On success the order's status changes, action side
// effects run (scheduling the deadline on accept, counting a revision on a
// revision request) and an audit entry is appended to the history.
//
// Failure modes: InvalidTransitionError when no row matches the request,
// GuardFailedError when a guard rejects it. The order is unchanged on failure.
func (o *Order) Apply(actor Actor, action Action, payload Payload, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}
	if err := o.checkParticipant(actor); err != nil {
		return err
	}

	rule, ok := transitionTable()[transitionKey{from: o.status, action: action}]
	if !ok {
		return &InvalidTransitionError{From: o.status, Action: action, Role: actor.Role()}
	}
	if !rule.allowsRole(actor.Role()) {
		return &InvalidTransitionError{From: o.status, Action: action, Role: actor.Role()}
	}
	if rule.guard != nil {
		if err := rule.guard(o, actor, payload, now); err != nil {
			return err
		}
	}

	switch action {
	case ActionAccept:
		timeline, err := NewTimeline(now, o.deliveryDays)
		if err != nil {
			return err
		}
		o.timeline = &timeline
	case ActionRequestRevision:
		o.revisionsUsed++
	}

	o.status = rule.to
	o.history = append(o.history, NewHistoryEntry(rule.to, actor, now, payload))
	return nil
}

// CanApply reports whether a transition request would pass the table lookup,
// the role check and the guard, without mutating the order.
func (o *Order) CanApply(actor Actor, action Action, payload Payload, now time.Time) error {
	rule, ok := transitionTable()[transitionKey{from: o.status, action: action}]
	if !ok {
		return &InvalidTransitionError{From: o.status, Action: action, Role: actor.Role()}
	}
	if !rule.allowsRole(actor.Role()) {
		return &InvalidTransitionError{From: o.status, Action: action, Role: actor.Role()}
	}
	if rule.guard != nil {
		return rule.guard(o, actor, payload, now)
	}
	return nil
}

// MarkPaid records the gateway's capture confirmation. The movement is
// strictly one-way: a pending payment becomes paid, a paid payment stays paid
// (idempotent), a refunded payment is rejected.
func (o *Order) MarkPaid() error {
	if err := o.Validate(); err != nil {
		return err
	}
	switch o.paymentStatus {
	case PaymentRefunded:
		return ErrPaymentAlreadyRefunded
	case PaymentPaid:
		return nil
	default:
		o.paymentStatus = PaymentPaid
		return nil
	}
}

// MarkRefunded records the gateway's refund confirmation. Refunds are only
// valid on cancelled orders whose payment was captured.
func (o *Order) MarkRefunded() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != StatusCancelled {
		return ErrRefundRequiresCancelledOrder
	}
	if o.paymentStatus != PaymentPaid {
		return ErrRefundRequiresCapturedPayment
	}
	o.paymentStatus = PaymentRefunded
	return nil
}

// ExtendDeadline moves the delivery deadline forward by additionalDays at the
// buyer's request and appends an audit entry carrying the reason and the added
// days. The deadline must already be scheduled (seller accepted) and the order
// must not be final. Extension bounds are enforced by the Timeline.
func (o *Order) ExtendDeadline(actor Actor, additionalDays int, reason string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleBuyer {
		return ErrOnlyBuyerMayExtend
	}
	if err := o.checkParticipant(actor); err != nil {
		return err
	}
	if o.status.IsFinal() {
		return ErrOrderFrozen
	}
	if o.timeline == nil {
		return ErrTimelineNotScheduled
	}

	extended, err := o.timeline.Extend(additionalDays)
	if err != nil {
		return &GuardFailedError{Action: ActionUnknown, Reason: err.Error()}
	}

	o.timeline = &extended
	o.history = append(o.history, NewHistoryEntry(o.status, actor, now, Payload{
		Reason:        reason,
		ExtensionDays: additionalDays,
	}))
	return nil
}

// IsLate reports whether the order is past its delivery deadline and still
// active. Orders without a scheduled deadline, completed orders and cancelled
// orders are never late. Lateness does not auto-cancel anything; it only
// unlocks the seller-facing cancellation guard.
func (o *Order) IsLate(now time.Time) bool {
	if o.timeline == nil || o.status.IsFinal() {
		return false
	}
	return o.timeline.IsLate(now)
}

// Progress returns the derived completion percentage in [0, 100].
//
// If an explicit override is set it is clamped to [0, 100] and rounded.
// Otherwise the percentage is the status's position in the canonical progress
// ordering. Cancelled orders report the last ordered status they reached
// before cancellation.
func (o *Order) Progress() int {
	if o.progressOverride != nil {
		p := *o.progressOverride
		if p < 0 {
			return 0
		}
		if p > 100 {
			return 100
		}
		return p
	}

	index, ok := o.status.progressIndex()
	if !ok {
		index = o.lastOrderedIndex()
	}

	steps := len(progressOrdering()) - 1
	return int(math.Round(float64(index) / float64(steps) * 100))
}

// lastOrderedIndex walks the history backwards for the most recent status
// that participates in the progress ordering.
func (o *Order) lastOrderedIndex() int {
	for i := len(o.history) - 1; i >= 0; i-- {
		if index, ok := o.history[i].Status().progressIndex(); ok {
			return index
		}
	}
	return 0
}

// SetProgressOverride pins the displayed progress to an explicit percentage.
// The stored value is clamped to [0, 100] when read.
func (o *Order) SetProgressOverride(progress int) {
	o.progressOverride = &progress
}

// ClearProgressOverride returns progress reporting to the derived value.
func (o *Order) ClearProgressOverride() {
	o.progressOverride = nil
}

// SetAdminNote records an admin-only annotation. The state machine never
// writes this field and it remains editable after the order is frozen.
func (o *Order) SetAdminNote(note string) {
	o.adminNote = note
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the purchasing party's user ID.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// SellerID returns the delivering party's user ID.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// GigID returns the purchased gig listing's ID.
func (o *Order) GigID() kernel.UUID {
	return o.gigID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Price returns the fee/VAT/earnings breakdown.
func (o *Order) Price() PriceBreakdown {
	return o.price
}

// PaymentStatus returns the escrow payment state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// CreatedAt returns the purchase time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DeliveryDays returns the gig package's promised delivery window in days.
func (o *Order) DeliveryDays() int {
	return o.deliveryDays
}

// Timeline returns the delivery deadline, or nil before the seller accepts.
func (o *Order) Timeline() *Timeline {
	if o.timeline == nil {
		return nil
	}
	t := *o.timeline
	return &t
}

// RevisionsAllowed returns the gig package's revision allowance.
func (o *Order) RevisionsAllowed() RevisionAllowance {
	return o.revisionsAllowed
}

// RevisionsUsed returns how many revisions the buyer has requested.
func (o *Order) RevisionsUsed() int {
	return o.revisionsUsed
}

// History returns a copy of the append-only status history.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// ProgressOverride returns the explicit progress value, or nil when progress
// is derived from the status.
func (o *Order) ProgressOverride() *int {
	if o.progressOverride == nil {
		return nil
	}
	p := *o.progressOverride
	return &p
}

// AdminNote returns the admin-only annotation.
func (o *Order) AdminNote() string {
	return o.adminNote
}

// Version returns the optimistic concurrency version the aggregate was loaded
// with. The repository increments it on every successful update.
func (o *Order) Version() int {
	return o.version
}

// checkParticipant ensures buyer and seller actors match the order's own
// participants. The auth layer resolves identity and role; this check ties
// that identity to this specific order.
func (o *Order) checkParticipant(actor Actor) error {
	switch actor.Role() {
	case RoleBuyer:
		if !actor.ID().IsEqual(o.buyerID) {
			return ErrActorNotParticipant
		}
	case RoleSeller:
		if !actor.ID().IsEqual(o.sellerID) {
			return ErrActorNotParticipant
		}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParticipants(buyerID, sellerID, gigID kernel.UUID) error {
	if err := errors.Join(buyerID.Validate(), sellerID.Validate(), gigID.Validate()); err != nil {
		return err
	}
	if buyerID.IsEqual(sellerID) {
		return errs.NewValueIsInvalidError("buyer and seller must be different users")
	}
	o.buyerID = buyerID
	o.sellerID = sellerID
	o.gigID = gigID
	return nil
}

func (o *Order) setPrice(price PriceBreakdown) error {
	if err := price.Validate(); err != nil {
		return err
	}
	o.price = price
	return nil
}

func (o *Order) setInitialPaymentStatus(paymentStatus PaymentStatus) error {
	if paymentStatus != PaymentPending && paymentStatus != PaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("a new order must be pending or paid, got %q", paymentStatus),
		)
	}
	o.paymentStatus = paymentStatus
	return nil
}

func (o *Order) setDeliveryDays(deliveryDays int) error {
	if deliveryDays <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery days is invalid",
			fmt.Errorf("%d is not greater than 0", deliveryDays),
		)
	}
	o.deliveryDays = deliveryDays
	return nil
}

func (o *Order) setRevisionsAllowed(revisionsAllowed RevisionAllowance) error {
	if err := revisionsAllowed.Validate(); err != nil {
		return err
	}
	o.revisionsAllowed = revisionsAllowed
	return nil
}
