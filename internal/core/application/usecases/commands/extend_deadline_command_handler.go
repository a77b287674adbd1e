package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"marketplace/internal/core/ports"
)

// ExtendDeadlineCommandHandler applies buyer-initiated deadline extensions.
// The domain enforces the per-call range, the accumulated-days cap and the
// buyer-only rule; the handler owns persistence and notification.
type ExtendDeadlineCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewExtendDeadlineCommandHandler creates a handler for deadline extensions.
func NewExtendDeadlineCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ExtendDeadlineCommandHandler {
	return ExtendDeadlineCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "extend_deadline_handler"),
	}
}

// Handle processes the extension request and publishes an
// order.deadline_extended event after the commit.
func (h ExtendDeadlineCommandHandler) Handle(ctx context.Context, cmd ExtendDeadlineCommand) error {
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

	if err = o.ExtendDeadline(cmd.Actor(), cmd.AdditionalDays(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orders.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	timeline := o.Timeline()
	if err = h.publisher.Publish(ctx, ports.Event{
		Name: ports.EventOrderDeadlineExtended,
		Payload: map[string]string{
			"orderId":      o.ID().String(),
			"addedDays":    strconv.Itoa(cmd.AdditionalDays()),
			"deliveryDate": timeline.DeliveryDate().Format(time.RFC3339),
		},
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event", ports.EventOrderDeadlineExtended, "error", err)
	}

	return nil
}
