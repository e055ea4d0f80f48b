package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkhomytsya/table-reservation/internal/queue"
	"github.com/mkhomytsya/table-reservation/internal/service"
)

// ReservationHandler exposes the booking engine over HTTP.  Request
// parameters reach the engine as raw strings so that the validator owns
// the whole input contract; the handler only maps failure kinds onto
// status codes.  JWT authentication is assumed to have run already.
type ReservationHandler struct {
	Booking *service.Booking
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(b *service.Booking) *ReservationHandler {
	if b == nil {
		panic("nil booking engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: b}
}

// reservationReq carries the raw request parameters.  json.Number keeps
// guests and duration as written by the client, so "3.5 guests" fails
// validation instead of being silently truncated by a float bind.
type reservationReq struct {
	Guests   json.Number `json:"guests"`
	Start    string      `json:"start"`
	Duration json.Number `json:"duration"`
}

// Create handles POST /v1/reservations.  On success it returns 201 with
// the new reservation id and publishes a confirmation event.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	id, err := h.Booking.Create(ctx, userID, req.Guests.String(), req.Start, req.Duration.String())
	if err != nil {
		return bookingError(c, err)
	}
	h.publishConfirmed(id, userID, 0)
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/reservations/:id.  The old reservation is
// deleted and a new one allocated atomically; the response carries the
// newly issued id, which replaces the old one for all later calls.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	id, err := h.Booking.Update(ctx, userID, resID, req.Guests.String(), req.Start, req.Duration.String())
	if err != nil {
		return bookingError(c, err)
	}
	h.publishConfirmed(id, userID, resID)
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// Delete handles DELETE /v1/reservations/:id and returns 204 on success.
func (h *ReservationHandler) Delete(c echo.Context) error {
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	if err := h.Booking.Delete(ctx, resID); err != nil {
		return bookingError(c, err)
	}
	go func() {
		_ = queue.PublishReservationCancelled(context.Background(), queue.ReservationCancelledEvent{
			ReservationID: resID,
			CancelledAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	view, err := h.Booking.Get(c.Request().Context(), resID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": view})
}

// List handles GET /v1/reservations and returns every reservation
// ordered by start time.
func (h *ReservationHandler) List(c echo.Context) error {
	views, err := h.Booking.List(c.Request().Context())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// publishConfirmed emits a confirmation event after the allocation has
// committed.  The broker is best-effort: the lookup and publish run
// detached from the request and failures are only logged.
func (h *ReservationHandler) publishConfirmed(id, userID, replacedID uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		view, err := h.Booking.Get(ctx, id)
		if err != nil {
			return
		}
		_ = queue.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
			ReservationID: view.ID,
			TableID:       view.TableID,
			TableLabel:    view.TableLabel,
			PartySize:     view.PartySize,
			StartsAt:      view.StartsAt,
			EndsAt:        view.EndsAt,
			CreatedBy:     userID,
			ReplacedID:    replacedID,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// bookingError translates the engine's failure kinds into HTTP
// responses.  Anything without a kind is an internal error.
func bookingError(c echo.Context, err error) error {
	switch service.KindOf(err) {
	case service.KindInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case service.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case service.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// getUserID extracts the authenticated account id set by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
