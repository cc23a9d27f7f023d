package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
)

// fakePatientStore is an in-memory PatientStore with the same ownership
// semantics as the SQL repository.
type fakePatientStore struct {
	nextID   uint64
	patients map[uint64]*model.Patient
}

func newFakePatientStore() *fakePatientStore {
	return &fakePatientStore{nextID: 1, patients: map[uint64]*model.Patient{}}
}

func (f *fakePatientStore) Create(ctx context.Context, p *model.Patient) error {
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func (f *fakePatientStore) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return model.Patient{}, repository.ErrPatientNotFound
	}
	if p.OwnerID != ownerID {
		return model.Patient{}, repository.ErrForbidden
	}
	return *p, nil
}

func (f *fakePatientStore) ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]model.Patient, error) {
	var out []model.Patient
	for _, p := range f.patients {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePatientStore) Update(ctx context.Context, id, ownerID uint64, p *model.Patient) error {
	existing, err := f.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	existing.Name, existing.Age, existing.DNI, existing.Phone = p.Name, p.Age, p.DNI, p.Phone
	f.patients[id] = &existing
	return nil
}

func (f *fakePatientStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	p, ok := f.patients[id]
	if !ok {
		return repository.ErrPatientNotFound
	}
	if p.OwnerID != ownerID {
		return repository.ErrForbidden
	}
	delete(f.patients, id)
	return nil
}

// doPatient runs a patient handler as user uid against /v1/patients/:id.
func doPatient(t *testing.T, h echo.HandlerFunc, uid uint64, method, body string, id uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", model.RolePsychologist)
	if id != 0 {
		c.SetParamNames("id")
		c.SetParamValues(strconv.FormatUint(id, 10))
	}
	require.NoError(t, h(c))
	return rec
}

func seedPatient(t *testing.T, store *fakePatientStore, ownerID uint64) uint64 {
	t.Helper()
	p := model.Patient{OwnerID: ownerID, Name: "Juan", Age: 30}
	require.NoError(t, store.Create(context.Background(), &p))
	return p.ID
}

func TestPatient_CreateAndGet(t *testing.T) {
	store := newFakePatientStore()
	h := NewPatientHandler(store)

	rec := doPatient(t, h.Create, 1, http.MethodPost, `{"name":"Juan","age":30}`, 0)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doPatient(t, h.Get, 1, http.MethodGet, "", 1)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Juan"`)
}

func TestPatient_CreateRequiresName(t *testing.T) {
	h := NewPatientHandler(newFakePatientStore())
	rec := doPatient(t, h.Create, 1, http.MethodPost, `{"name":"  ","age":30}`, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatient_ForeignReadForbidden(t *testing.T) {
	store := newFakePatientStore()
	id := seedPatient(t, store, 1) // owned by psychologist 1
	h := NewPatientHandler(store)

	rec := doPatient(t, h.Get, 2, http.MethodGet, "", id)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPatient_ForeignUpdateForbidden(t *testing.T) {
	store := newFakePatientStore()
	id := seedPatient(t, store, 1)
	h := NewPatientHandler(store)

	rec := doPatient(t, h.Update, 2, http.MethodPut, `{"name":"Hacked","age":40}`, id)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// record is untouched
	p, err := store.GetByIDAndOwner(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, "Juan", p.Name)
}

// Psychologist A cannot delete B's patient; A deletes their own and the
// record is gone afterwards.
func TestPatient_DeleteOwnershipLifecycle(t *testing.T) {
	store := newFakePatientStore()
	idB := seedPatient(t, store, 2) // owned by psychologist B
	idA := seedPatient(t, store, 1) // owned by psychologist A
	h := NewPatientHandler(store)

	rec := doPatient(t, h.Delete, 1, http.MethodDelete, "", idB)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doPatient(t, h.Delete, 1, http.MethodDelete, "", idA)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doPatient(t, h.Get, 1, http.MethodGet, "", idA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatient_ListScopedToOwner(t *testing.T) {
	store := newFakePatientStore()
	seedPatient(t, store, 1)
	seedPatient(t, store, 2)
	h := NewPatientHandler(store)

	rec := doPatient(t, h.List, 1, http.MethodGet, "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `"name"`))
}
