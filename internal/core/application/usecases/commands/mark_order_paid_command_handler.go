package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// MarkOrderPaidCommandHandler processes the gateway's capture confirmation.
// Payment status moves pending -> paid exactly once; a repeated confirmation
// is a no-op. When the order is sitting in requirementsSubmitted the capture
// also starts the work as the system actor, since the payment gate that held
// the start transition back is now open.
type MarkOrderPaidCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewMarkOrderPaidCommandHandler creates a handler for capture confirmations.
func NewMarkOrderPaidCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) MarkOrderPaidCommandHandler {
	return MarkOrderPaidCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "mark_order_paid_handler"),
	}
}

// Handle marks the order paid and auto-starts it when requirements are
// already in.
func (h MarkOrderPaidCommandHandler) Handle(ctx context.Context, cmd MarkOrderPaidCommand) error {
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

	if err = o.MarkPaid(); err != nil {
		return err
	}

	system := order.NewSystemActor()
	now := time.Now().UTC()

	started := false
	if o.CanApply(system, order.ActionStart, order.Payload{}, now) == nil {
		if err = o.Apply(system, order.ActionStart, order.Payload{}, now); err != nil {
			return err
		}
		started = true
	}

	if err = orders.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if started {
		h.publish(ctx, ports.Event{
			Name: ports.EventOrderTransitioned,
			Payload: map[string]string{
				"orderId":   o.ID().String(),
				"from":      order.StatusRequirementsSubmitted.String(),
				"to":        o.Status().String(),
				"actorRole": order.RoleSystem.String(),
				"actorId":   system.ID().String(),
			},
		})
	}

	return nil
}

func (h MarkOrderPaidCommandHandler) publish(ctx context.Context, event ports.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event", event.Name, "error", err)
	}
}
