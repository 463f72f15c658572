package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// FilmHandler serves the film catalog.  Reads are public; writes are
// ADMIN only (enforced in the router).
type FilmHandler struct {
	Films *repository.FilmRepo
}

func NewFilmHandler(f *repository.FilmRepo) *FilmHandler { return &FilmHandler{Films: f} }

type createFilmReq struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Image           *string `json:"image"`
	DurationMinutes int     `json:"duration_minutes"`
	AgeRating       string  `json:"age_rating"`
}

func (h *FilmHandler) Create(c echo.Context) error {
	var req createFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and positive duration required"})
	}
	if !model.ValidAgeRating(req.AgeRating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown age rating"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f := model.Film{
		Title:           req.Title,
		Description:     req.Description,
		Image:           req.Image,
		DurationMinutes: req.DurationMinutes,
		AgeRating:       model.AgeRating(req.AgeRating),
	}
	if err := h.Films.Create(ctx, &f); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FilmHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Films.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FilmHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	films, total, err := h.Films.List(ctx, page, size)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: films, Total: total, Page: page, Size: size})
}

type updateFilmReq struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Image           *string `json:"image"`
	DurationMinutes *int    `json:"duration_minutes"`
	AgeRating       *string `json:"age_rating"`
}

func (h *FilmHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var rating *model.AgeRating
	if req.AgeRating != nil {
		if !model.ValidAgeRating(*req.AgeRating) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown age rating"})
		}
		r := model.AgeRating(*req.AgeRating)
		rating = &r
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "positive duration required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Films.Update(ctx, id, req.Title, req.Description, req.Image, req.DurationMinutes, rating)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Films.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
