package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/queue"
	"github.com/notaio/notaio-backend/internal/repository"
	queue_publisher "github.com/notaio/notaio-backend/internal/service"
)

// AppointmentHandler serves the psychologist-only appointment CRUD.
// Booking publishes a domain event; the Publish field is swappable so
// tests run without a broker.
type AppointmentHandler struct {
	Appointments AppointmentStore
	Publish      func(ctx context.Context, ev queue.AppointmentBookedEvent) error
}

func NewAppointmentHandler(a AppointmentStore) *AppointmentHandler {
	return &AppointmentHandler{
		Appointments: a,
		Publish:      queue_publisher.PublishAppointmentBooked,
	}
}

type appointmentCreateReq struct {
	PatientID     uint64    `json:"patient_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Notes         *string   `json:"notes"`
	VideoCallLink *string   `json:"video_call_link"`
}

type appointmentUpdateReq struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type appointmentResp struct {
	ID            uint64    `json:"id"`
	PatientID     uint64    `json:"patient_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	VideoCallLink *string   `json:"video_call_link,omitempty"`
}

func toAppointmentResp(a model.Appointment) appointmentResp {
	return appointmentResp{
		ID:            a.ID,
		PatientID:     a.PatientID,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        a.Status,
		Notes:         a.Notes,
		VideoCallLink: a.VideoCallLink,
	}
}

func appointmentErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrAppointmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
	case errors.Is(err, repository.ErrPatientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}

// Create handles POST /v1/appointments. The referenced patient must
// belong to the booking psychologist; the repository enforces that.
func (h *AppointmentHandler) Create(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req appointmentCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PatientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_id is required"})
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Appointment{
		PsychologistID: psyID,
		PatientID:      req.PatientID,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		Status:         model.AppointmentScheduled,
		Notes:          req.Notes,
		VideoCallLink:  req.VideoCallLink,
	}
	if err := h.Appointments.Create(ctx, &a); err != nil {
		return appointmentErr(c, err)
	}

	if h.Publish != nil {
		// Best effort: a broker outage must not fail the booking.
		_ = h.Publish(c.Request().Context(), queue.AppointmentBookedEvent{
			AppointmentID:  a.ID,
			PsychologistID: a.PsychologistID,
			PatientID:      a.PatientID,
			StartTime:      a.StartTime.Format(time.RFC3339),
			EndTime:        a.EndTime.Format(time.RFC3339),
			BookedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, toAppointmentResp(a))
}

// List handles GET /v1/appointments for the authenticated psychologist.
func (h *AppointmentHandler) List(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Appointments.ListByOwner(ctx, psyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]appointmentResp, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/appointments/:id.
func (h *AppointmentHandler) Get(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Appointments.GetByIDAndOwner(ctx, id, psyID)
	if err != nil {
		return appointmentErr(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Update handles PATCH /v1/appointments/:id: status transitions and note
// edits only; times are fixed once booked.
func (h *AppointmentHandler) Update(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req appointmentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidAppointmentStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Appointments.UpdateStatus(ctx, id, psyID, req.Status, req.Notes); err != nil {
		return appointmentErr(c, err)
	}
	a, err := h.Appointments.GetByIDAndOwner(ctx, id, psyID)
	if err != nil {
		return appointmentErr(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Delete handles DELETE /v1/appointments/:id.
func (h *AppointmentHandler) Delete(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Appointments.DeleteByIDAndOwner(ctx, id, psyID); err != nil {
		return appointmentErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
