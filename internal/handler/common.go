// Package handler defines the HTTP handlers of the booking API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// writeErr translates errors surfacing from the service and repository
// layers into HTTP responses: not-found → 404, conflict and invalid
// argument → 400, forbidden → 403, anything else → 500.
func writeErr(c echo.Context, err error) error {
	switch {
	case repository.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "conflicting state"})
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid argument"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// getUserID reads the user id JWTAuth stored in the context.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id, nil
	}
	return 0, errors.New("missing user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pathIDValue parses a numeric id given as a raw string (query params).
func pathIDValue(v string) (uint64, error) {
	return strconv.ParseUint(v, 10, 64)
}

// pageParams reads ?page= and ?size= with defaults 0/20 and a size cap
// of 100.  Offsets are computed as page*size everywhere.
func pageParams(c echo.Context) (page, size int) {
	page, size = 0, 20
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v >= 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v > 0 {
		size = v
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// reqCtx bounds a handler's database work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pagedResp is the common envelope for list endpoints.
type pagedResp struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}
