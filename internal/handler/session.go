package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/service"
)

// SessionHandler serves screening sessions.  Creating a session
// materializes one ticket per hall seat; moving a session to another
// hall rebuilds its tickets; deleting removes tickets first.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Films    *repository.FilmRepo
	Halls    *repository.HallRepo
	Seats    *repository.SeatRepo
	Tickets  *service.TicketService
}

func NewSessionHandler(s *repository.SessionRepo, f *repository.FilmRepo, h *repository.HallRepo,
	seats *repository.SeatRepo, t *service.TicketService) *SessionHandler {
	return &SessionHandler{Sessions: s, Films: f, Halls: h, Seats: seats, Tickets: t}
}

type createSessionReq struct {
	FilmID  uint64    `json:"film_id"`
	HallID  uint64    `json:"hall_id"`
	StartAt time.Time `json:"start_at"`
}

func (h *SessionHandler) Create(c echo.Context) error {
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FilmID == 0 || req.HallID == 0 || req.StartAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "film_id, hall_id and start_at required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	film, err := h.Films.GetByID(ctx, req.FilmID)
	if err != nil {
		return writeErr(c, err)
	}
	if _, err := h.Halls.GetByID(ctx, req.HallID); err != nil {
		return writeErr(c, err)
	}
	seats, err := h.Seats.GetByHall(ctx, req.HallID)
	if err != nil {
		return writeErr(c, err)
	}

	slotStart, slotEnd := model.Timeslot(req.StartAt, film.DurationMinutes)
	s := model.Session{
		FilmID:    req.FilmID,
		HallID:    req.HallID,
		StartAt:   req.StartAt.UTC(),
		SlotStart: slotStart,
		SlotEnd:   slotEnd,
	}
	if err := h.Sessions.Create(ctx, &s); err != nil {
		return writeErr(c, err)
	}
	created, err := h.Tickets.CreateForSession(ctx, s.ID, seats)
	if err != nil {
		// A session without tickets is unsellable; undo it.
		_ = h.Sessions.Delete(ctx, s.ID)
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": s, "tickets_created": created})
}

func (h *SessionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	var filmID *uint64
	if v := c.QueryParam("film_id"); v != "" {
		id, err := pathIDValue(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film_id"})
		}
		filmID = &id
	}
	var date *time.Time
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = &d
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	sessions, total, err := h.Sessions.List(ctx, page, size, filmID, date)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, pagedResp{Items: sessions, Total: total, Page: page, Size: size})
}

type updateSessionReq struct {
	FilmID  *uint64    `json:"film_id"`
	HallID  *uint64    `json:"hall_id"`
	StartAt *time.Time `json:"start_at"`
}

func (h *SessionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	hallChanged := false
	if req.FilmID != nil {
		s.FilmID = *req.FilmID
	}
	if req.HallID != nil && *req.HallID != s.HallID {
		if _, err := h.Halls.GetByID(ctx, *req.HallID); err != nil {
			return writeErr(c, err)
		}
		s.HallID = *req.HallID
		hallChanged = true
	}
	if req.StartAt != nil {
		s.StartAt = req.StartAt.UTC()
	}

	film, err := h.Films.GetByID(ctx, s.FilmID)
	if err != nil {
		return writeErr(c, err)
	}
	s.SlotStart, s.SlotEnd = model.Timeslot(s.StartAt, film.DurationMinutes)

	if err := h.Sessions.Update(ctx, s); err != nil {
		return writeErr(c, err)
	}
	if hallChanged {
		// Old seats no longer apply; rebuild the inventory.
		if _, err := h.Tickets.DeleteForSession(ctx, s.ID); err != nil {
			return writeErr(c, err)
		}
		seats, err := h.Seats.GetByHall(ctx, s.HallID)
		if err != nil {
			return writeErr(c, err)
		}
		if _, err := h.Tickets.CreateForSession(ctx, s.ID, seats); err != nil {
			return writeErr(c, err)
		}
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	removed, err := h.Tickets.DeleteForSession(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.Sessions.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets_removed": removed})
}
