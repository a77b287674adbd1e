package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Stable error kinds exposed to API clients. Kinds are part of the contract:
// clients branch on Kind, humans read Message.
const (
	KindValidationError     = "ValidationError"
	KindNotFound            = "NotFound"
	KindInvalidTransition   = "InvalidTransition"
	KindGuardFailed         = "GuardFailed"
	KindConcurrencyConflict = "ConcurrencyConflict"
	KindDuplicateReview     = "DuplicateReview"
	KindPaymentError        = "PaymentError"
	KindInternal            = "Internal"
)

func errorResponse(c echo.Context, status int, kind string, message string) error {
	return c.JSON(status, Envelope{Status: "error", Kind: kind, Message: message})
}

// respondError maps domain and application errors onto HTTP statuses and
// stable kinds. The original error message is passed through so rejections
// explain which actor or state was required.
func respondError(c echo.Context, err error) error {
	var invalidTransition *order.InvalidTransitionError
	var guardFailed *order.GuardFailedError
	var paymentErr *ports.PaymentError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.As(err, &invalidTransition):
		return errorResponse(c, http.StatusConflict, KindInvalidTransition, err.Error())
	case errors.As(err, &guardFailed):
		return errorResponse(c, http.StatusUnprocessableEntity, KindGuardFailed, err.Error())
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return errorResponse(c, http.StatusConflict, KindConcurrencyConflict, err.Error())
	case errors.Is(err, review.ErrDuplicateReview):
		return errorResponse(c, http.StatusConflict, KindDuplicateReview, err.Error())
	case errors.As(err, &paymentErr):
		return errorResponse(c, http.StatusBadGateway, KindPaymentError, err.Error())
	case errors.Is(err, commands.ErrOrderIsNotReviewable),
		errors.Is(err, order.ErrOnlyBuyerMayExtend),
		errors.Is(err, order.ErrOrderFrozen),
		errors.Is(err, order.ErrPaymentAlreadyRefunded),
		errors.Is(err, order.ErrTimelineNotScheduled):
		return errorResponse(c, http.StatusConflict, KindInvalidTransition, err.Error())
	case errors.Is(err, commands.ErrReviewerIsNotBuyer),
		errors.Is(err, order.ErrActorNotParticipant):
		return errorResponse(c, http.StatusForbidden, KindInvalidTransition, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(c, http.StatusBadRequest, KindValidationError, err.Error())
	default:
		return errorResponse(c, http.StatusInternalServerError, KindInternal, err.Error())
	}
}
