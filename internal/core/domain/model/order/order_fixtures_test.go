package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// parties is the buyer/seller pair owning the fixture orders.
type parties struct {
	buyerID  kernel.UUID
	sellerID kernel.UUID
	buyer    order.Actor
	seller   order.Actor
	system   order.Actor
}

func newParties(t *testing.T) parties {
	t.Helper()

	buyerID := kernel.NewUUID()
	sellerID := kernel.NewUUID()

	buyer, err := order.NewActor(buyerID, order.RoleBuyer)
	require.NoError(t, err)
	seller, err := order.NewActor(sellerID, order.RoleSeller)
	require.NoError(t, err)

	return parties{
		buyerID:  buyerID,
		sellerID: sellerID,
		buyer:    buyer,
		seller:   seller,
		system:   order.NewSystemActor(),
	}
}

// newPaidOrder creates a fresh paid order: base 100, 7 delivery days,
// 2 revisions.
func newPaidOrder(t *testing.T, p parties) *order.Order {
	t.Helper()

	price, err := order.NewDefaultPriceBreakdown(100)
	require.NoError(t, err)
	allowance, err := order.NewRevisionAllowance(2)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), p.buyerID, p.sellerID, kernel.NewUUID(),
		price, order.PaymentPaid, 7, allowance,
		time.Now().UTC(),
	)
	require.NoError(t, err)

	return o
}

// orderIn drives a fresh paid order to the target status through the real
// state machine.
func orderIn(t *testing.T, p parties, target order.Status) *order.Order {
	t.Helper()

	o := newPaidOrder(t, p)
	if target == order.StatusCreated {
		return o
	}

	now := time.Now().UTC()
	steps := []struct {
		status  order.Status
		actor   order.Actor
		action  order.Action
		payload order.Payload
	}{
		{order.StatusAccepted, p.seller, order.ActionAccept, order.Payload{}},
		{order.StatusRequirementsSubmitted, p.buyer, order.ActionSubmitRequirements, order.Payload{Requirements: "logo brief"}},
		{order.StatusStarted, p.seller, order.ActionStart, order.Payload{}},
		{order.StatusDelivered, p.seller, order.ActionDeliver, order.Payload{Description: "first draft"}},
	}

	for _, step := range steps {
		require.NoError(t, o.Apply(step.actor, step.action, step.payload, now))
		if o.Status() == target {
			return o
		}
	}

	switch target {
	case order.StatusRequestedRevision:
		require.NoError(t, o.Apply(p.buyer, order.ActionRequestRevision, order.Payload{Reason: "colors are off"}, now))
	case order.StatusCompleted:
		require.NoError(t, o.Apply(p.buyer, order.ActionAcceptDelivery, order.Payload{}, now))
	case order.StatusWaitingReview:
		require.NoError(t, o.Apply(p.buyer, order.ActionAcceptDelivery, order.Payload{}, now))
		require.NoError(t, o.Apply(p.system, order.ActionAwaitReview, order.Payload{}, now))
	case order.StatusCancelled:
		require.NoError(t, o.Apply(p.buyer, order.ActionCancel, order.Payload{Reason: "changed my mind"}, now))
	default:
		t.Fatalf("cannot build fixture order in status %q", target)
	}

	require.Equal(t, target, o.Status())
	return o
}

// validPayloadFor returns a payload satisfying the guard of action.
func validPayloadFor(action order.Action) order.Payload {
	switch action {
	case order.ActionSubmitRequirements:
		return order.Payload{Requirements: "logo brief"}
	case order.ActionDeliver:
		return order.Payload{Description: "first draft"}
	case order.ActionRequestRevision:
		return order.Payload{Reason: "colors are off"}
	case order.ActionCancel:
		return order.Payload{Reason: "no longer needed"}
	default:
		return order.Payload{}
	}
}
