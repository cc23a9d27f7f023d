package model

import "time"

// Appointment status values as stored in `appointments.status`.
const (
	AppointmentScheduled           = "agendada"
	AppointmentCompleted           = "completada"
	AppointmentCancelledByPatient  = "cancelada_paciente"
	AppointmentCancelledByDoctor   = "cancelada_psicologo"
)

// ValidAppointmentStatus reports whether s is a known status value.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted,
		AppointmentCancelledByPatient, AppointmentCancelledByDoctor:
		return true
	}
	return false
}

// Appointment is a session booked by a psychologist with one of their
// own patients.  Both foreign keys must resolve to rows owned by the
// same psychologist; the repository enforces this on creation.
//
// Fields:
//  ID             – primary key identifier.
//  PsychologistID – users.id of the psychologist holding the session.
//  PatientID      – patients.id of the attending patient.
//  StartTime      – session start.
//  EndTime        – session end (must be after StartTime).
//  Status         – one of the Appointment* constants.
//  Notes          – optional pre/post session notes.
//  VideoCallLink  – optional link for remote sessions.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Appointment struct {
	ID             uint64    // appointments.id
	PsychologistID uint64    // appointments.psychologist_id
	PatientID      uint64    // appointments.patient_id
	StartTime      time.Time // appointments.start_time
	EndTime        time.Time // appointments.end_time
	Status         string    // appointments.status
	Notes          *string   // appointments.notes (nullable)
	VideoCallLink  *string   // appointments.video_call_link (nullable)
	CreatedAt      time.Time // appointments.created_at
	UpdatedAt      time.Time // appointments.updated_at
}
