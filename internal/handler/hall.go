package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// HallHandler serves halls and their seating plans.
type HallHandler struct {
	Halls *repository.HallRepo
	Seats *repository.SeatRepo
}

func NewHallHandler(h *repository.HallRepo, s *repository.SeatRepo) *HallHandler {
	return &HallHandler{Halls: h, Seats: s}
}

type hallReq struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

func (h *HallHandler) Create(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Number <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive number required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall := model.Hall{Name: req.Name, Number: req.Number}
	if err := h.Halls.Create(ctx, &hall); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

func (h *HallHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

func (h *HallHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	halls, total, err := h.Halls.List(ctx, page, size)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: halls, Total: total, Page: page, Size: size})
}

type updateHallReq struct {
	Name   *string `json:"name"`
	Number *int    `json:"number"`
}

func (h *HallHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateHallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.Update(ctx, id, req.Name, req.Number)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

func (h *HallHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Seats.DeleteByHall(ctx, id); err != nil {
		return writeErr(c, err)
	}
	if err := h.Halls.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type seatSpec struct {
	Row        int    `json:"row"`
	Number     int    `json:"number"`
	CategoryID uint64 `json:"category_id"`
}
type layoutReq struct {
	Seats []seatSpec `json:"seats"`
}

// SetLayout replaces a hall's seating plan.  Existing seats are removed
// first; tickets of already-scheduled sessions are untouched because
// they carry their own seat references by id and price by value.
func (h *HallHandler) SetLayout(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req layoutReq
	if err := c.Bind(&req); err != nil || len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats required"})
	}
	maxRow := 0
	for _, s := range req.Seats {
		if s.Row <= 0 || s.Number <= 0 || s.CategoryID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "row, number and category_id must be positive"})
		}
		if s.Row > maxRow {
			maxRow = s.Row
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Halls.GetByID(ctx, id); err != nil {
		return writeErr(c, err)
	}
	if _, err := h.Seats.DeleteByHall(ctx, id); err != nil {
		return writeErr(c, err)
	}
	seats := make([]model.Seat, len(req.Seats))
	for i, s := range req.Seats {
		seats[i] = model.Seat{HallID: id, Row: s.Row, Number: s.Number, CategoryID: s.CategoryID}
	}
	if err := h.Seats.CreateBulk(ctx, seats); err != nil {
		return writeErr(c, err)
	}
	if err := h.Halls.SetRows(ctx, id, maxRow); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// Plan returns the hall's seats grouped by row.
func (h *HallHandler) Plan(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	seats, err := h.Seats.GetByHall(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	rows := make(map[int][]model.Seat)
	for _, s := range seats {
		rows[s.Row] = append(rows[s.Row], s)
	}
	return c.JSON(http.StatusOK, echo.Map{"hall": hall, "rows": rows})
}
