// Package http is the inbound REST adapter. It translates HTTP requests into
// commands and queries, and domain errors into the API's error envelope.
//
// Actor identity arrives in the X-User-ID and X-User-Role headers; an
// upstream auth layer is expected to have resolved and verified them before
// requests reach this server.
package http

import (
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	extendDeadlineHandler  commands.ExtendDeadlineCommandHandler
	markOrderPaidHandler   commands.MarkOrderPaidCommandHandler
	submitReviewHandler    commands.SubmitReviewCommandHandler

	// Query handlers
	getOrderHandler      queries.GetOrderQueryHandler
	getLateOrdersHandler queries.GetLateOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	extendDeadlineHandler commands.ExtendDeadlineCommandHandler,
	markOrderPaidHandler commands.MarkOrderPaidCommandHandler,
	submitReviewHandler commands.SubmitReviewCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getLateOrdersHandler queries.GetLateOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		extendDeadlineHandler:  extendDeadlineHandler,
		markOrderPaidHandler:   markOrderPaidHandler,
		submitReviewHandler:    submitReviewHandler,
		getOrderHandler:        getOrderHandler,
		getLateOrdersHandler:   getLateOrdersHandler,
	}
}

// RegisterRoutes attaches all order endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/late", s.GetLateOrders)
	api.GET("/orders/:id", s.GetOrder)

	api.PUT("/orders/:id/accept", s.AcceptOrder)
	api.PUT("/orders/:id/requirements-submit", s.SubmitRequirements)
	api.PUT("/orders/:id/start", s.StartOrder)
	api.PUT("/orders/:id/deliver", s.DeliverOrder)
	api.PUT("/orders/:id/revision-request", s.RequestRevision)
	api.PUT("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/advance-status", s.AdvanceStatus)

	api.POST("/orders/:id/timeline/extend", s.ExtendDeadline)
	api.POST("/orders/:id/payment-captured", s.PaymentCaptured)
	api.POST("/orders/:id/reviews", s.SubmitReview)
}

// CreateOrder handles POST /api/v1/orders - registers a purchased gig order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, err.Error())
	}

	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return respondError(ctx, err)
	}
	sellerID, err := kernel.UUIDFromString(req.SellerID)
	if err != nil {
		return respondError(ctx, err)
	}
	gigID, err := kernel.UUIDFromString(req.GigID)
	if err != nil {
		return respondError(ctx, err)
	}

	revisions := order.NewUnlimitedRevisionAllowance()
	if req.RevisionsAllowed != nil {
		revisions, err = order.NewRevisionAllowance(*req.RevisionsAllowed)
		if err != nil {
			return respondError(ctx, err)
		}
	}

	orderID := kernel.NewUUID()

	var cmd commands.CreateOrderCommand
	if req.PlatformFeeRate != nil || req.VATRate != nil {
		feeRate := order.DefaultPlatformFeeRate
		if req.PlatformFeeRate != nil {
			feeRate = *req.PlatformFeeRate
		}
		vatRate := order.DefaultVATRate
		if req.VATRate != nil {
			vatRate = *req.VATRate
		}
		cmd, err = commands.NewCreateOrderCommandWithRates(
			orderID, buyerID, sellerID, gigID,
			req.BaseAmount, feeRate, vatRate,
			req.DeliveryDays, revisions, req.PaidUpfront,
		)
	} else {
		cmd, err = commands.NewCreateOrderCommand(
			orderID, buyerID, sellerID, gigID,
			req.BaseAmount, req.DeliveryDays, revisions, req.PaidUpfront,
		)
	}
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, ok(map[string]string{"orderId": orderID.String()}))
}

// GetOrder handles GET /api/v1/orders/:id - the full order view.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ok(toOrderResponse(view)))
}

// GetLateOrders handles GET /api/v1/orders/late - orders past their deadline.
func (s *Server) GetLateOrders(ctx echo.Context) error {
	query, err := queries.NewGetLateOrdersQuery(time.Now())
	if err != nil {
		return respondError(ctx, err)
	}

	lateOrders, err := s.getLateOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]LateOrderResponse, 0, len(lateOrders))
	for _, late := range lateOrders {
		response = append(response, LateOrderResponse{
			ID:           late.ID.String(),
			BuyerID:      late.BuyerID.String(),
			SellerID:     late.SellerID.String(),
			Status:       late.Status,
			DeliveryDate: late.DeliveryDate,
			DaysLate:     late.DaysLate,
		})
	}

	return ctx.JSON(http.StatusOK, ok(response))
}

// AcceptOrder handles PUT /api/v1/orders/:id/accept. The action depends on
// who calls it: a seller accepts a fresh order, a buyer accepts a delivery.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	action := order.ActionAccept
	if actor.Role() == order.RoleBuyer {
		action = order.ActionAcceptDelivery
	}

	return s.transition(ctx, actor, action, order.Payload{})
}

// SubmitRequirements handles PUT /api/v1/orders/:id/requirements-submit.
func (s *Server) SubmitRequirements(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req TransitionPayloadRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}

	return s.transition(ctx, actor, order.ActionSubmitRequirements, order.Payload{
		Requirements: req.Requirements,
		Attachments:  req.Attachments,
	})
}

// StartOrder handles PUT /api/v1/orders/:id/start.
func (s *Server) StartOrder(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	return s.transition(ctx, actor, order.ActionStart, order.Payload{})
}

// DeliverOrder handles PUT /api/v1/orders/:id/deliver - both the first
// delivery and resubmissions after a revision request.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req TransitionPayloadRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}

	return s.transition(ctx, actor, order.ActionDeliver, order.Payload{
		Description: req.Description,
		Attachments: req.Attachments,
	})
}

// RequestRevision handles PUT /api/v1/orders/:id/revision-request.
func (s *Server) RequestRevision(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req TransitionPayloadRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}

	return s.transition(ctx, actor, order.ActionRequestRevision, order.Payload{
		Reason: req.Reason,
	})
}

// CancelOrder handles PUT /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req TransitionPayloadRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}

	return s.transition(ctx, actor, order.ActionCancel, order.Payload{
		Reason: req.Reason,
	})
}

// AdvanceStatus handles POST /api/v1/orders/:id/advance-status - the generic
// transition endpoint. The action name comes from the body; the transition
// table decides whether the combination is allowed.
func (s *Server) AdvanceStatus(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req AdvanceStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, err.Error())
	}

	action, err := order.ActionFromString(req.Action)
	if err != nil {
		return respondError(ctx, err)
	}

	return s.transition(ctx, actor, action, order.Payload{
		Requirements: req.Requirements,
		Description:  req.Description,
		Reason:       req.Reason,
		Attachments:  req.Attachments,
	})
}

// ExtendDeadline handles POST /api/v1/orders/:id/timeline/extend.
func (s *Server) ExtendDeadline(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req ExtendDeadlineRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, err.Error())
	}

	cmd, err := commands.NewExtendDeadlineCommand(orderID, actor, req.AdditionalDays, req.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.extendDeadlineHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ok(nil))
}

// PaymentCaptured handles POST /api/v1/orders/:id/payment-captured - the
// payment gateway's capture confirmation callback.
func (s *Server) PaymentCaptured(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkOrderPaidCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.markOrderPaidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ok(nil))
}

// SubmitReview handles POST /api/v1/orders/:id/reviews.
func (s *Server) SubmitReview(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req SubmitReviewRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, KindValidationError, err.Error())
	}

	cmd, err := commands.NewSubmitReviewCommand(orderID, actor.ID(), req.Rating, req.Text)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.submitReviewHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, ok(nil))
}

func (s *Server) transition(
	ctx echo.Context,
	actor order.Actor,
	action order.Action,
	payload order.Payload,
) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, action, payload)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ok(nil))
}

func (s *Server) actorFromHeaders(ctx echo.Context) (order.Actor, error) {
	userID, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerUserID))
	if err != nil {
		return order.Actor{}, err
	}

	role, err := order.RoleFromString(ctx.Request().Header.Get(headerUserRole))
	if err != nil {
		return order.Actor{}, err
	}

	return order.NewActor(userID, role)
}
