// Patient rows are owner-scoped: every read, update and delete carries
// the owner id in the WHERE clause or checks it explicitly, so a
// psychologist can never reach another psychologist's records through
// this repository. This is deliberate; the ownership check is not
// optional hardening.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notaio/notaio-backend/internal/model"
)

type PatientRepo struct{ DB *sql.DB }

func NewPatientRepo(db *sql.DB) *PatientRepo { return &PatientRepo{DB: db} }

// Create inserts a patient record for the given owner and populates the
// generated ID and timestamps.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO patients (owner_id, name, age, dni, phone) VALUES (?,?,?,?,?)",
		p.OwnerID, p.Name, p.Age, p.DNI, p.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const q = "SELECT created_at, updated_at FROM patients WHERE id=?"
	return r.DB.QueryRowContext(ctx, q, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByIDAndOwner fetches a patient by id, distinguishing a missing row
// (ErrPatientNotFound) from a row owned by someone else (ErrForbidden).
func (r *PatientRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Patient, error) {
	var p model.Patient
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,owner_id,name,age,dni,phone,created_at,updated_at FROM patients WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.DNI, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Patient{}, ErrPatientNotFound
	}
	if err != nil {
		return model.Patient{}, err
	}
	if p.OwnerID != ownerID {
		return model.Patient{}, ErrForbidden
	}
	return p, nil
}

// ListByOwner returns all patients of one psychologist with offset/limit
// pagination.
func (r *PatientRepo) ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]model.Patient, error) {
	const q = `SELECT id,owner_id,name,age,dni,phone,created_at,updated_at
	           FROM patients WHERE owner_id=? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, q, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Patient
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.DNI, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a patient after re-checking
// ownership. Returns ErrPatientNotFound or ErrForbidden accordingly.
func (r *PatientRepo) Update(ctx context.Context, id, ownerID uint64, p *model.Patient) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	const q = `UPDATE patients SET name=?, age=?, dni=?, phone=?, updated_at=CURRENT_TIMESTAMP
	           WHERE id=? AND owner_id=?`
	_, err := r.DB.ExecContext(ctx, q, p.Name, p.Age, p.DNI, p.Phone, id, ownerID)
	return err
}

// DeleteByIDAndOwner removes a patient along with its appointments,
// provided it belongs to the given owner. The cascade runs inside a
// transaction so a failure leaves both tables untouched.
func (r *PatientRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, "SELECT owner_id FROM patients WHERE id=?", id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPatientNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM appointments WHERE patient_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM patients WHERE id=?", id); err != nil {
		return err
	}
	return nil
}
