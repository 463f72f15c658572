package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	_ = mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, reached
}

func TestJWTAuthAcceptsMintedToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, model.RoleUser, 15)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err = JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		assert.Equal(t, uint64(7), c.Get("user_id"))
		assert.Equal(t, model.RoleUser, c.Get("role"))
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, reached := invoke(JWTAuth(testSecret), "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForeignSecret(t *testing.T) {
	at, err := utils.NewAccessToken("another-secret", 7, model.RoleUser, 15)
	require.NoError(t, err)

	rec, reached := invoke(JWTAuth(testSecret), "Bearer "+at.Token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsGarbage(t *testing.T) {
	rec, reached := invoke(JWTAuth(testSecret), "Bearer not.a.jwt")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	run := func(role interface{}, allowed ...string) (int, bool) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		reached := false
		_ = RequireRole(allowed...)(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		})(c)
		return rec.Code, reached
	}

	code, reached := run(model.RoleAdmin, model.RoleAdmin)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, code)

	code, reached = run(model.RoleUser, model.RoleAdmin)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, code)

	code, reached = run(nil, model.RoleAdmin)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, code)

	code, reached = run(model.RoleUser, model.RoleUser, model.RoleAdmin)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, code)
}

func TestSubjectIDNormalization(t *testing.T) {
	id, ok := subjectID(float64(12))
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	id, ok = subjectID("34")
	assert.True(t, ok)
	assert.Equal(t, uint64(34), id)

	_, ok = subjectID("abc")
	assert.False(t, ok)

	_, ok = subjectID(nil)
	assert.False(t, ok)
}
