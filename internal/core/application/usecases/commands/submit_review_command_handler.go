package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/ports"
)

// ErrOrderIsNotReviewable is returned when a review is submitted for an order
// that has not finished (it must be completed or waiting for the review).
var ErrOrderIsNotReviewable = errors.New("order is not reviewable: it must be completed first")

// ErrReviewerIsNotBuyer is returned when a review is submitted by someone
// other than the order's buyer.
var ErrReviewerIsNotBuyer = errors.New("only the order's buyer may submit a review")

// SubmitReviewCommandHandler is the gate in front of review creation. A
// review is accepted exactly once, only from the order's buyer and only once
// the order has finished. When the order is parked in waitingReview the
// accepted review also settles it back to completed, in the same transaction.
type SubmitReviewCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewSubmitReviewCommandHandler creates a handler for review submissions.
func NewSubmitReviewCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "submit_review_handler"),
	}
}

// Handle processes one review submission end to end.
func (h SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) error {
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

	if o.Status() != order.StatusCompleted && o.Status() != order.StatusWaitingReview {
		return ErrOrderIsNotReviewable
	}
	if !o.BuyerID().IsEqual(cmd.BuyerID()) {
		return ErrReviewerIsNotBuyer
	}

	reviews := uow.ReviewRepository()
	exists, err := reviews.ExistsForOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	if exists {
		return review.ErrDuplicateReview
	}

	now := time.Now().UTC()
	newReview, err := review.NewReview(o.ID(), cmd.BuyerID(), o.SellerID(), cmd.Rating(), cmd.Text(), now)
	if err != nil {
		return err
	}

	if err = reviews.Add(ctx, newReview); err != nil {
		return err
	}

	settled := false
	if o.Status() == order.StatusWaitingReview {
		buyer, actorErr := order.NewActor(cmd.BuyerID(), order.RoleBuyer)
		if actorErr != nil {
			return actorErr
		}
		if err = o.Apply(buyer, order.ActionFinalizeReview, order.Payload{}, now); err != nil {
			return err
		}
		if err = orders.Update(ctx, o); err != nil {
			return err
		}
		settled = true
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publish(ctx, ports.Event{
		Name: ports.EventReviewSubmitted,
		Payload: map[string]string{
			"orderId":  o.ID().String(),
			"buyerId":  cmd.BuyerID().String(),
			"sellerId": o.SellerID().String(),
			"rating":   strconv.Itoa(cmd.Rating()),
		},
	})
	if settled {
		h.publish(ctx, ports.Event{
			Name: ports.EventOrderTransitioned,
			Payload: map[string]string{
				"orderId":   o.ID().String(),
				"from":      order.StatusWaitingReview.String(),
				"to":        order.StatusCompleted.String(),
				"actorRole": order.RoleBuyer.String(),
				"actorId":   cmd.BuyerID().String(),
			},
		})
	}

	return nil
}

func (h SubmitReviewCommandHandler) publish(ctx context.Context, event ports.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event", event.Name, "error", err)
	}
}
