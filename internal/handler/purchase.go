package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/service"
)

// PurchaseHandler serves the purchase endpoints.
type PurchaseHandler struct {
	Purchases *service.PurchaseService
}

func NewPurchaseHandler(p *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{Purchases: p}
}

type createPurchaseReq struct {
	TicketIDs []uint64 `json:"ticket_ids"`
}

// Create groups tickets into a PENDING purchase for the current user.
func (h *PurchaseHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPurchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Purchases.Create(ctx, uid, req.TicketIDs)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Cancel voids a PENDING purchase and frees its tickets.
func (h *PurchaseHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Purchases.Cancel(ctx, uid, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the current user's purchases, newest first.
func (h *PurchaseHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size := pageParams(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	purchases, total, err := h.Purchases.GetByClient(ctx, uid, page, size)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: purchases, Total: total, Page: page, Size: size})
}

// Get returns one purchase.  Regular users only see their own; admins
// see any.
func (h *PurchaseHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Purchases.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if p.ClientID != uid && c.Get("role") != model.RoleAdmin {
		// Hide foreign purchases behind not-found.
		return writeErr(c, repository.ErrPurchaseNotFound)
	}
	return c.JSON(http.StatusOK, p)
}
