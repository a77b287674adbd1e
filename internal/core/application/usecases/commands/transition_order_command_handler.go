package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// TransitionOrderCommandHandler is the execution side of the order state
// machine. It loads the order, lets the aggregate validate and apply the
// transition against the transition table, and persists the result with an
// optimistic version check so that concurrent transitions on the same order
// never both succeed.
//
// Two collaborator calls are owned here rather than in the aggregate:
//
//   - Payment capture. When the start action finds a pending payment on a
//     requirementsSubmitted order, the gateway is asked to capture the total
//     before the transition guard runs. A gateway failure surfaces as a
//     PaymentError and nothing is persisted.
//   - Refund. After a cancellation of a captured payment the gateway is asked
//     to refund; on confirmation the order is marked refunded in the same
//     transaction.
//
// After a successful commit an order.transitioned event is published for each
// applied hop (accepting a delivery may apply two: delivered -> completed and
// the automatic completed -> waitingReview). Publishing is fire-and-forget.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates the transition executor.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		logger:     logger.With("component", "transition_order_handler"),
	}
}

// appliedHop records one executed transition for event emission.
type appliedHop struct {
	from  order.Status
	to    order.Status
	actor order.Actor
}

// Handle processes one transition request end to end.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var hops []appliedHop

	if h.needsCapture(o, cmd.Action()) {
		if err = h.gateway.Capture(ctx, o.ID(), o.Price().TotalAmount()); err != nil {
			return err
		}
		if err = o.MarkPaid(); err != nil {
			return err
		}
	}

	from := o.Status()
	if err = o.Apply(cmd.Actor(), cmd.Action(), cmd.Payload(), now); err != nil {
		return err
	}
	hops = append(hops, appliedHop{from: from, to: o.Status(), actor: cmd.Actor()})

	// Completion parks the order in waitingReview until the buyer reviews it.
	if cmd.Action() == order.ActionAcceptDelivery && o.Status() == order.StatusCompleted {
		hasReview, reviewErr := uow.ReviewRepository().ExistsForOrder(ctx, o.ID())
		if reviewErr != nil {
			return reviewErr
		}
		if !hasReview {
			system := order.NewSystemActor()
			if err = o.Apply(system, order.ActionAwaitReview, order.Payload{}, now); err != nil {
				return err
			}
			hops = append(hops, appliedHop{from: order.StatusCompleted, to: o.Status(), actor: system})
		}
	}

	if cmd.Action() == order.ActionCancel && o.PaymentStatus() == order.PaymentPaid {
		if err = h.gateway.Refund(ctx, o.ID()); err != nil {
			return err
		}
		if err = o.MarkRefunded(); err != nil {
			return err
		}
	}

	if err = orders.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, hop := range hops {
		h.publish(ctx, ports.Event{
			Name: ports.EventOrderTransitioned,
			Payload: map[string]string{
				"orderId":   o.ID().String(),
				"from":      hop.from.String(),
				"to":        hop.to.String(),
				"actorRole": hop.actor.Role().String(),
				"actorId":   hop.actor.ID().String(),
			},
		})
	}

	return nil
}

// needsCapture reports whether this request is the capture boundary: a start
// action on a requirementsSubmitted order whose payment is still pending.
// This is the only place the core asks the gateway to capture.
func (h TransitionOrderCommandHandler) needsCapture(o *order.Order, action order.Action) bool {
	return action == order.ActionStart &&
		o.Status() == order.StatusRequirementsSubmitted &&
		o.PaymentStatus() == order.PaymentPending
}

func (h TransitionOrderCommandHandler) publish(ctx context.Context, event ports.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event", event.Name, "error", err)
	}
}
