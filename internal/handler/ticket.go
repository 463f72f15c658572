package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/service"
)

// TicketHandler serves the ticket lifecycle endpoints: listing a
// session's tickets, reserving one and cancelling a reservation.
type TicketHandler struct {
	Tickets *service.TicketService
}

func NewTicketHandler(t *service.TicketService) *TicketHandler { return &TicketHandler{Tickets: t} }

// ListBySession returns the tickets of a session ordered by seat,
// optionally filtered with ?status=AVAILABLE|RESERVED|SOLD.
func (h *TicketHandler) ListBySession(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var status *model.TicketStatus
	if v := c.QueryParam("status"); v != "" {
		if !model.ValidTicketStatus(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		st := model.TicketStatus(v)
		status = &st
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	tickets, err := h.Tickets.ListBySession(ctx, sessionID, status)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets, "count": len(tickets)})
}

// Reserve places a 20-minute hold on a ticket for the current user.
func (h *TicketHandler) Reserve(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Reserve(ctx, uid, ticketID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CancelReservation releases the current user's hold on a ticket.
func (h *TicketHandler) CancelReservation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tickets.CancelReservation(ctx, uid, ticketID); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
