package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notaio/notaio-backend/internal/config"
	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
	"github.com/notaio/notaio-backend/internal/utils"
)

const testSecret = "test-secret"

func testCfg() config.Config {
	return config.Config{
		JWTSecret:  testSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

// fakeUserStore is an in-memory UserStore keyed by email and id.
type fakeUserStore struct {
	nextID  uint64
	byEmail map[string]*model.User
	byID    map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		nextID:  1,
		byEmail: map[string]*model.User{},
		byID:    map[uint64]*model.User{},
	}
}

func (f *fakeUserStore) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u := &model.User{ID: f.nextID, Email: email, PasswordHash: hash, Role: role}
	f.nextID++
	f.byEmail[email] = u
	f.byID[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if u, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if u, ok := f.byID[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

// fakeProfileStore records created profiles.
type fakeProfileStore struct {
	profiles map[uint64]*model.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[uint64]*model.Profile{}}
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return *p, nil
	}
	return model.Profile{}, repository.ErrProfileNotFound
}

func (f *fakeProfileStore) Create(ctx context.Context, p *model.Profile) error {
	p.ID = uint64(len(f.profiles) + 1)
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeProfileStore) Update(ctx context.Context, userID uint64, p *model.Profile) error {
	if _, ok := f.profiles[userID]; !ok {
		return repository.ErrProfileNotFound
	}
	cp := *p
	cp.UserID = userID
	f.profiles[userID] = &cp
	return nil
}

func (f *fakeProfileStore) ListPsychologistProfiles(ctx context.Context) ([]model.Profile, error) {
	var out []model.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	h := NewAuthHandler(testCfg(), users, profiles)

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"A@X.com","password":"secret","role":"psicologo","full_name":"Dra. Ana"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a@x.com", resp.Email) // normalized
	assert.Equal(t, model.RolePsychologist, resp.Role)

	p, err := profiles.GetByUserID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dra. Ana", p.FullName)
}

func TestRegister_UnknownRoleRejected(t *testing.T) {
	h := NewAuthHandler(testCfg(), newFakeUserStore(), newFakeProfileStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"a@x.com","password":"secret","role":"admin"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	h := NewAuthHandler(testCfg(), users, newFakeProfileStore())

	body := `{"email":"a@x.com","password":"secret","role":"paciente"}`
	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// Register then login: the issued token's subject must be the created
// user's id.
func TestRegisterLogin_TokenCarriesSubject(t *testing.T) {
	users := newFakeUserStore()
	h := NewAuthHandler(testCfg(), users, newFakeProfileStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"a@x.com","password":"secret","role":"psicologo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"a@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "bearer", login.TokenType)

	claims, err := utils.VerifyAccessToken(testSecret, login.AccessToken)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, created.ID, uid)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUserStore()
	h := NewAuthHandler(testCfg(), users, newFakeProfileStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"a@x.com","password":"secret","role":"psicologo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeErr(t, rec))
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestLogin_UnknownEmailSameAnswer(t *testing.T) {
	h := NewAuthHandler(testCfg(), newFakeUserStore(), newFakeProfileStore())

	rec := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@x.com","password":"secret"}`)

	// Unknown email and wrong password collapse to one external answer.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeErr(t, rec))
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}
