package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/service"
)

// PaymentHandler serves the payment endpoints.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(p *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

type processPaymentReq struct {
	PurchaseID uint64       `json:"purchase_id"`
	Card       service.Card `json:"card"`
}

// Process settles a PENDING purchase with the submitted card.
func (h *PaymentHandler) Process(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req processPaymentReq
	if err := c.Bind(&req); err != nil || req.PurchaseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase_id and card required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Process(ctx, uid, req.PurchaseID, req.Card)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GetStatus returns one payment.  Users only see their own payments;
// admins see any.
func (h *PaymentHandler) GetStatus(c echo.Context) error {
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

	p, err := h.Payments.GetStatus(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if p.ClientID != uid && c.Get("role") != model.RoleAdmin {
		return writeErr(c, repository.ErrPaymentNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         p.ID,
		"reference":  p.Reference,
		"status":     p.Status,
		"created_at": p.CreatedAt,
	})
}
