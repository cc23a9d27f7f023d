package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
	"github.com/notaio/notaio-backend/internal/utils"
)

const testSecret = "test-secret"

type fakePrincipalStore struct {
	getByIDFunc func(ctx context.Context, id uint64) (model.User, error)
}

func (f *fakePrincipalStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return model.User{}, repository.ErrUserNotFound
}

// runGate sends a request with the given Authorization header through
// the Authenticate middleware into a probe handler that reports what
// landed in the context.
func runGate(t *testing.T, store PrincipalStore, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Authenticate(testSecret, store)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rec, _ := runGate(t, &fakePrincipalStore{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "unauthenticated", body["error"])
	assert.Equal(t, "missing", body["reason"])
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	rec, _ := runGate(t, &fakePrincipalStore{}, "Bearer not.a.jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid", decodeBody(t, rec)["reason"])
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", -time.Minute)
	require.NoError(t, err)

	rec, _ := runGate(t, &fakePrincipalStore{}, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "expired", decodeBody(t, rec)["reason"])
}

func TestAuthenticate_WrongKey(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 7, "a@x.com", time.Hour)
	require.NoError(t, err)

	rec, _ := runGate(t, &fakePrincipalStore{}, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid", decodeBody(t, rec)["reason"])
}

func TestAuthenticate_PrincipalGone(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", time.Hour)
	require.NoError(t, err)

	store := &fakePrincipalStore{
		getByIDFunc: func(ctx context.Context, id uint64) (model.User, error) {
			return model.User{}, repository.ErrUserNotFound
		},
	}
	rec, _ := runGate(t, store, "Bearer "+tok.Token)

	// A valid session for a deleted account answers 404, not 401.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "account no longer exists", decodeBody(t, rec)["error"])
}

func TestAuthenticate_CorruptRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", time.Hour)
	require.NoError(t, err)

	store := &fakePrincipalStore{
		getByIDFunc: func(ctx context.Context, id uint64) (model.User, error) {
			return model.User{ID: id, Email: "a@x.com", Role: "superadmin"}, nil
		},
	}
	rec, _ := runGate(t, store, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthenticate_Success(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", time.Hour)
	require.NoError(t, err)

	store := &fakePrincipalStore{
		getByIDFunc: func(ctx context.Context, id uint64) (model.User, error) {
			require.Equal(t, uint64(7), id)
			return model.User{ID: id, Email: "a@x.com", Role: model.RolePsychologist}, nil
		},
	}
	rec, c := runGate(t, store, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), c.Get("user_id"))
	assert.Equal(t, "a@x.com", c.Get("email"))
	assert.Equal(t, model.RolePsychologist, c.Get("role"))
}
