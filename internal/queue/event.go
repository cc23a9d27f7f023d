// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentBookedEvent is published when a psychologist books a
// session. It carries enough information for downstream consumers to
// log or notify without querying the primary database. Timestamps are
// RFC 3339 strings.
type AppointmentBookedEvent struct {
	AppointmentID  uint64 `json:"appointment_id"`
	PsychologistID uint64 `json:"psychologist_id"`
	PatientID      uint64 `json:"patient_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	BookedAt       string `json:"booked_at"`
}
