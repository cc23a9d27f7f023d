package handler // handler contains the HTTP handlers for the API

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
)

// Store interfaces consumed by the handlers. The concrete repository
// types satisfy them; tests substitute func-field fakes.

// UserStore persists and resolves principals.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uint64) (model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, userID uint64, p *model.Profile) error
	ListPsychologistProfiles(ctx context.Context) ([]model.Profile, error)
}

// PatientStore persists owner-scoped patient records.
type PatientStore interface {
	Create(ctx context.Context, p *model.Patient) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Patient, error)
	ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]model.Patient, error)
	Update(ctx context.Context, id, ownerID uint64, p *model.Patient) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// AppointmentStore persists owner-scoped appointments.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByIDAndOwner(ctx context.Context, id, psychologistID uint64) (model.Appointment, error)
	ListByOwner(ctx context.Context, psychologistID uint64) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id, psychologistID uint64, status string, notes *string) error
	DeleteByIDAndOwner(ctx context.Context, id, psychologistID uint64) error
}

// AvailabilityStore persists availability blocks.
type AvailabilityStore interface {
	Create(ctx context.Context, b *model.AvailabilityBlock) error
	ListByPsychologistInRange(ctx context.Context, psychologistID uint64, from, to time.Time) ([]model.AvailabilityBlock, error)
	DeleteByIDAndOwner(ctx context.Context, id, psychologistID uint64) error
}

// getUserID extracts the authenticated user's id from the echo context,
// where the authentication middleware stored it.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id, nil
	}
	return 0, errors.New("no user_id in context")
}

// reqCtx bounds a handler's database work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
