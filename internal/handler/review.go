package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// ReviewHandler serves per-film reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Films   *repository.FilmRepo
}

func NewReviewHandler(r *repository.ReviewRepo, f *repository.FilmRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Films: f}
}

type reviewReq struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func validRating(r int) bool { return r >= 1 && r <= 10 }

// Create posts a review on a film by the current user.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filmID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..10"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Films.GetByID(ctx, filmID); err != nil {
		return writeErr(c, err)
	}
	rv := model.Review{FilmID: filmID, AuthorID: uid, Rating: req.Rating, Text: strings.TrimSpace(req.Text)}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, rv)
}

// ListByFilm returns a page of a film's reviews, newest first.
func (h *ReviewHandler) ListByFilm(c echo.Context) error {
	filmID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	page, size := pageParams(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, total, err := h.Reviews.ListByFilm(ctx, filmID, page, size)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: reviews, Total: total, Page: page, Size: size})
}

type updateReviewReq struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

// Update edits the current user's own review.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..10"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if cur.AuthorID != uid {
		return writeErr(c, repository.ErrForbidden)
	}
	rv, err := h.Reviews.Update(ctx, id, req.Rating, req.Text)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, rv)
}

// Delete removes the current user's own review; admins may remove any.
func (h *ReviewHandler) Delete(c echo.Context) error {
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

	cur, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if cur.AuthorID != uid && c.Get("role") != model.RoleAdmin {
		return writeErr(c, repository.ErrForbidden)
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
