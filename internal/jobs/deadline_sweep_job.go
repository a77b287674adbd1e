package jobs

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DeadlineSweepJob periodically scans for orders past their delivery
// deadline and publishes an order.late event for each one. Lateness never
// auto-cancels an order; the events only feed notifications and the UI's
// cancel affordance.
type DeadlineSweepJob struct {
	handler   queries.GetLateOrdersQueryHandler
	publisher ports.EventPublisher
	cron      *cron.Cron
	spec      string
	logger    *slog.Logger
}

// NewDeadlineSweepJob creates the sweep. spec is a standard five-field cron
// expression; the default configuration runs the sweep hourly.
func NewDeadlineSweepJob(
	handler queries.GetLateOrdersQueryHandler,
	publisher ports.EventPublisher,
	spec string,
	logger *slog.Logger,
) *DeadlineSweepJob {
	return &DeadlineSweepJob{
		handler:   handler,
		publisher: publisher,
		cron:      cron.New(),
		spec:      spec,
		logger:    logger.With("component", "deadline_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *DeadlineSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, j.sweep)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Deadline sweep job started", "schedule", j.spec)
	return nil
}

// Stop stops the sweep.
func (j *DeadlineSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Deadline sweep job stopped")
}

func (j *DeadlineSweepJob) sweep() {
	ctx := context.Background()
	now := time.Now()

	query, err := queries.NewGetLateOrdersQuery(now)
	if err != nil {
		j.logger.ErrorContext(ctx, "Deadline sweep failed to build query", "error", err)
		return
	}

	lateOrders, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Deadline sweep failed", "error", err)
		return
	}

	for _, late := range lateOrders {
		event := ports.Event{
			Name: ports.EventOrderLate,
			Payload: map[string]string{
				"orderId":      late.ID.String(),
				"buyerId":      late.BuyerID.String(),
				"sellerId":     late.SellerID.String(),
				"status":       late.Status,
				"deliveryDate": late.DeliveryDate.Format(time.RFC3339),
				"daysLate":     strconv.Itoa(late.DaysLate),
			},
		}

		if err := j.publisher.Publish(ctx, event); err != nil {
			j.logger.ErrorContext(ctx, "Failed to publish order.late event",
				"orderId", late.ID.String(), "error", err)
		}
	}

	if len(lateOrders) > 0 {
		j.logger.InfoContext(ctx, "Deadline sweep finished", "lateOrders", len(lateOrders))
	}
}
