package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/booking-backend/internal/repository"
	"github.com/cinetix/booking-backend/internal/service"
)

// BookingHandler exposes the booking orchestrator over HTTP: creating a
// booking, the payment gateway callbacks and customer-side cancellation
// and listing. All routes require an authenticated user.
type BookingHandler struct {
	Svc          *service.BookingService
	Reservations *repository.ReservationRepo
}

func NewBookingHandler(svc *service.BookingService, reservations *repository.ReservationRepo) *BookingHandler {
	return &BookingHandler{Svc: svc, Reservations: reservations}
}

// ----- DTOs -----

type createBookingReq struct {
	ScreeningID uint64   `json:"screening_id" validate:"required"`
	SeatIDs     []uint64 `json:"seat_ids" validate:"required,min=1,max=10,dive,required"`
}

type completePaymentReq struct {
	PaidAmountCents uint64 `json:"paid_amount_cents" validate:"required"`
}

// currentUserID reads the authenticated user's id from the context. The
// "sub" claim decodes as float64; a zero return means the token was
// malformed.
func currentUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// writeDomainError maps the service's sentinel errors onto HTTP
// responses. Unknown errors become a plain 500 without leaking detail.
func writeDomainError(c echo.Context, err error) error {
	var conflict *repository.SeatConflictError
	switch {
	case errors.As(err, &conflict):
		msg := "seat already reserved"
		if conflict.SeatLabel != "" {
			msg = "seat " + conflict.SeatLabel + " already reserved"
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": msg})
	case errors.Is(err, repository.ErrSeatAlreadyReserved):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already reserved"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, repository.ErrScreeningUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "screening not open for booking"})
	case errors.Is(err, repository.ErrSeatUnknown):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown seat for this screening"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
	case errors.Is(err, repository.ErrPaymentNotReady):
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment is not awaiting completion"})
	case errors.Is(err, repository.ErrPaymentAmountMismatch):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "paid amount does not match expected amount"})
	case errors.Is(err, repository.ErrScreeningStarted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "screening already started"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// CreateBooking starts a booking for the authenticated user: the seats
// are claimed and a payment in READY state is returned for the gateway
// to collect.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	summary, err := h.Svc.StartBooking(c.Request().Context(), uid, req.ScreeningID, req.SeatIDs)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, summary)
}

// CompletePayment is the gateway's success callback: the paid amount is
// verified against the expected amount recorded at booking time.
func (h *BookingHandler) CompletePayment(c echo.Context) error {
	txnID := c.Param("txn_id")
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing transaction id"})
	}
	var req completePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.Svc.CompletePayment(c.Request().Context(), txnID, req.PaidAmountCents); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "COMPLETED"})
}

// FailPayment is the gateway's failure callback: the payment is marked
// FAILED and the claimed seats are released.
func (h *BookingHandler) FailPayment(c echo.Context) error {
	txnID := c.Param("txn_id")
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing transaction id"})
	}
	if err := h.Svc.ReportPaymentFailure(c.Request().Context(), txnID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "FAILED"})
}

// CancelBooking cancels one of the caller's reservations and frees its
// seats.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Svc.CancelBooking(c.Request().Context(), uid, groupID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyReservations lists the caller's reservations, newest first.
func (h *BookingHandler) MyReservations(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
