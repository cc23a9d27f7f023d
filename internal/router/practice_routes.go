package router

import (
	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/handler"
	"github.com/notaio/notaio-backend/internal/middleware"
	"github.com/notaio/notaio-backend/internal/model"
)

// RegisterPractice registers the authenticated practice-management
// endpoints. Profile routes accept both roles; patient, appointment and
// availability management is psychologist-only, enforced by the role
// middleware before any handler runs.
func RegisterPractice(
	e *echo.Echo,
	profiles *handler.ProfileHandler,
	patients *handler.PatientHandler,
	appointments *handler.AppointmentHandler,
	availability *handler.AvailabilityHandler,
	authn echo.MiddlewareFunc,
) {
	// ---- Profile (any authenticated user) ----
	u := e.Group("/v1/users", authn)
	u.GET("/me", profiles.GetMe)
	u.PUT("/me/profile", profiles.UpsertProfile)

	// ---- Psychologist-only practice resources ----
	g := e.Group(
		"/v1",
		authn,
		middleware.RequireRole(model.RolePsychologist),
	)

	// Patients
	g.POST("/patients", patients.Create)
	g.GET("/patients", patients.List)
	g.GET("/patients/:id", patients.Get)
	g.PUT("/patients/:id", patients.Update)
	g.DELETE("/patients/:id", patients.Delete)

	// Appointments
	g.POST("/appointments", appointments.Create)
	g.GET("/appointments", appointments.List)
	g.GET("/appointments/:id", appointments.Get)
	g.PATCH("/appointments/:id", appointments.Update)
	g.DELETE("/appointments/:id", appointments.Delete)

	// Availability
	g.POST("/availability/blocks", availability.CreateBlock)
	g.GET("/availability/my-blocks", availability.ListMine)
	g.DELETE("/availability/blocks/:id", availability.DeleteBlock)
}
