package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notaio/notaio-backend/internal/model"
)

// AppointmentRepo encapsulates database queries for appointments.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// Create books a session after verifying that the referenced patient
// belongs to the booking psychologist. Insert and ownership check run in
// one transaction so the patient cannot change hands in between.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var patientOwner uint64
	if err = tx.QueryRowContext(ctx, "SELECT owner_id FROM patients WHERE id=?", a.PatientID).Scan(&patientOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPatientNotFound
		}
		return err
	}
	if patientOwner != a.PsychologistID {
		err = ErrForbidden
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO appointments (psychologist_id, patient_id, start_time, end_time, status, notes, video_call_link)
		 VALUES (?,?,?,?,?,?,?)`,
		a.PsychologistID, a.PatientID, a.StartTime, a.EndTime, a.Status, a.Notes, a.VideoCallLink)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	err = tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM appointments WHERE id=?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return err
}

// GetByIDAndOwner fetches an appointment, distinguishing a missing row
// from one held by another psychologist.
func (r *AppointmentRepo) GetByIDAndOwner(ctx context.Context, id, psychologistID uint64) (model.Appointment, error) {
	var a model.Appointment
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,psychologist_id,patient_id,start_time,end_time,status,notes,video_call_link,created_at,updated_at
		 FROM appointments WHERE id=? LIMIT 1`,
		id).Scan(&a.ID, &a.PsychologistID, &a.PatientID, &a.StartTime, &a.EndTime,
		&a.Status, &a.Notes, &a.VideoCallLink, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Appointment{}, ErrAppointmentNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	if a.PsychologistID != psychologistID {
		return model.Appointment{}, ErrForbidden
	}
	return a, nil
}

// ListByOwner returns all appointments held by one psychologist ordered
// by start time.
func (r *AppointmentRepo) ListByOwner(ctx context.Context, psychologistID uint64) ([]model.Appointment, error) {
	const q = `SELECT id,psychologist_id,patient_id,start_time,end_time,status,notes,video_call_link,created_at,updated_at
	           FROM appointments WHERE psychologist_id=? ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, q, psychologistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PsychologistID, &a.PatientID, &a.StartTime, &a.EndTime,
			&a.Status, &a.Notes, &a.VideoCallLink, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateStatus changes the status and notes of an owned appointment.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, psychologistID uint64, status string, notes *string) error {
	if _, err := r.GetByIDAndOwner(ctx, id, psychologistID); err != nil {
		return err
	}
	const q = `UPDATE appointments SET status=?, notes=?, updated_at=CURRENT_TIMESTAMP
	           WHERE id=? AND psychologist_id=?`
	_, err := r.DB.ExecContext(ctx, q, status, notes, id, psychologistID)
	return err
}

// DeleteByIDAndOwner removes an owned appointment.
func (r *AppointmentRepo) DeleteByIDAndOwner(ctx context.Context, id, psychologistID uint64) error {
	if _, err := r.GetByIDAndOwner(ctx, id, psychologistID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM appointments WHERE id=? AND psychologist_id=?", id, psychologistID)
	return err
}
