// Package order provides the domain model for the marketplace order lifecycle
// and escrow workflow. It implements the Order aggregate root together with
// the state machine that governs every lifecycle transition.
//
// The package includes:
//   - Order: the aggregate root holding participants, price breakdown, payment
//     status, delivery timeline, revision allowance and the append-only status
//     history
//   - Status: the lifecycle state enum with its canonical progress ordering
//   - The transition table: the single source of truth for which (state, action,
//     role) combinations are allowed and which guards apply
//   - PriceBreakdown: the platform-fee/VAT/earnings split of the order amount
//   - Timeline: the delivery deadline with additive, audited extensions
//   - RevisionAllowance: the delivered/requestedRevision rework budget
//
// Key business rules:
//   - Every mutation of an order goes through Apply, which validates the
//     requesting actor, the current status and the transition guard against
//     the static transition table; there are no implicit fallbacks
//   - totalAmount == baseAmount + platformFee + vatAmount at all times, and
//     sellerEarnings == baseAmount - platformFee (VAT never flows to the seller)
//   - The status history is append-only and never rewritten
//   - Delivery deadlines only ever move forward; extensions are additive
//   - The revision counter only increases
//
// Orders are permanent financial records: once completed or cancelled they are
// frozen except for the one-time review and the admin-only note.
package order
