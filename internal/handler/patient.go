package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
)

// PatientHandler serves the psychologist-only patient record CRUD.
// Every operation is scoped to the authenticated owner; the repository
// refuses to touch rows owned by anyone else.
type PatientHandler struct {
	Patients PatientStore
}

func NewPatientHandler(p PatientStore) *PatientHandler {
	return &PatientHandler{Patients: p}
}

type patientReq struct {
	Name  string  `json:"name"`
	Age   int     `json:"age"`
	DNI   *string `json:"dni"`
	Phone *string `json:"phone"`
}

type patientResp struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Age   int     `json:"age"`
	DNI   *string `json:"dni,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func toPatientResp(p model.Patient) patientResp {
	return patientResp{ID: p.ID, Name: p.Name, Age: p.Age, DNI: p.DNI, Phone: p.Phone}
}

// patientErr maps repository sentinels onto HTTP answers shared by all
// patient endpoints.
func patientErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrPatientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}

// Create handles POST /v1/patients.
func (h *PatientHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req patientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Age < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "age must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Patient{OwnerID: ownerID, Name: req.Name, Age: req.Age, DNI: req.DNI, Phone: req.Phone}
	if err := h.Patients.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toPatientResp(p))
}

// List handles GET /v1/patients with skip/limit pagination.
func (h *PatientHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Patients.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]patientResp, 0, len(items))
	for _, p := range items {
		out = append(out, toPatientResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/patients/:id.
func (h *PatientHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Patients.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return patientErr(c, err)
	}
	return c.JSON(http.StatusOK, toPatientResp(p))
}

// Update handles PUT /v1/patients/:id. Ownership is re-checked on this
// path in its own right, not just on the read.
func (h *PatientHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req patientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Age < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "age must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Patient{Name: req.Name, Age: req.Age, DNI: req.DNI, Phone: req.Phone}
	if err := h.Patients.Update(ctx, id, ownerID, &p); err != nil {
		return patientErr(c, err)
	}
	updated, err := h.Patients.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return patientErr(c, err)
	}
	return c.JSON(http.StatusOK, toPatientResp(updated))
}

// Delete handles DELETE /v1/patients/:id.
func (h *PatientHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Patients.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return patientErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
