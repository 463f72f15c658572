package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// CategoryHandler serves the seat pricing tiers.
type CategoryHandler struct {
	Categories *repository.SeatCategoryRepo
}

func NewCategoryHandler(r *repository.SeatCategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

type categoryReq struct {
	Name       string `json:"name"`
	PriceCents uint32 `json:"price_cents"`
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive price required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := model.SeatCategory{Name: req.Name, PriceCents: req.PriceCents}
	if err := h.Categories.Create(ctx, &cat); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, total, err := h.Categories.List(ctx, page, size)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: cats, Total: total, Page: page, Size: size})
}

type updateCategoryReq struct {
	Name       *string `json:"name"`
	PriceCents *uint32 `json:"price_cents"`
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.Update(ctx, id, req.Name, req.PriceCents)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
