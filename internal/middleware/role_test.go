package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaio/notaio-backend/internal/model"
)

func runRoleCheck(t *testing.T, contextRole interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/availability/blocks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if contextRole != nil {
		c.Set("role", contextRole)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole_Allowed(t *testing.T) {
	rec := runRoleCheck(t, model.RolePsychologist, model.RolePsychologist)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_PatientCannotDeclareAvailability(t *testing.T) {
	rec := runRoleCheck(t, model.RolePatient, model.RolePsychologist)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MissingRole(t *testing.T) {
	rec := runRoleCheck(t, nil, model.RolePsychologist)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NonStringRole(t *testing.T) {
	rec := runRoleCheck(t, 42, model.RolePsychologist)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
