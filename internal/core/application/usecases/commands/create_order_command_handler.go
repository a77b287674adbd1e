package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Computes the price breakdown, persists the new order in "created" status and
// notifies the notification layer.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// Requires an OrderUoWFactory for transactional persistence and an
// EventPublisher for the order.created notification.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "create_order_handler"),
	}
}

// Handle processes the order creation command. The breakdown is computed once
// here, from the command's base amount and rates, and stored with the order.
// Publishing the order.created event happens after the commit and never fails
// the creation.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	price, err := order.NewPriceBreakdown(cmd.BaseAmount(), cmd.PlatformFeeRate(), cmd.VATRate())
	if err != nil {
		return err
	}

	paymentStatus := order.PaymentPending
	if cmd.PaidUpfront() {
		paymentStatus = order.PaymentPaid
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.BuyerID(), cmd.SellerID(), cmd.GigID(),
		price, paymentStatus, cmd.DeliveryDays(), cmd.RevisionsAllowed(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publish(ctx, ports.Event{
		Name: ports.EventOrderCreated,
		Payload: map[string]string{
			"orderId":  newOrder.ID().String(),
			"buyerId":  newOrder.BuyerID().String(),
			"sellerId": newOrder.SellerID().String(),
			"gigId":    newOrder.GigID().String(),
			"total":    formatAmount(newOrder.Price().TotalAmount()),
		},
	})

	return nil
}

func (h CreateOrderCommandHandler) publish(ctx context.Context, event ports.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event", event.Name, "error", err)
	}
}
