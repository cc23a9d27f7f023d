package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/notaio/notaio-backend/internal/model"
)

// AvailabilityRepo encapsulates database queries for availability
// blocks. Range listing is delegated to the database; blocks are
// half-open intervals and the overlap with booked appointments is not
// resolved here.
type AvailabilityRepo struct{ DB *sql.DB }

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{DB: db} }

// Create inserts an availability block for a psychologist.
func (r *AvailabilityRepo) Create(ctx context.Context, b *model.AvailabilityBlock) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO availability_blocks (psychologist_id, start_time, end_time) VALUES (?,?,?)",
		b.PsychologistID, b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM availability_blocks WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// ListByPsychologistInRange returns the blocks of one psychologist that
// lie inside [from, to], ordered by start time.
func (r *AvailabilityRepo) ListByPsychologistInRange(ctx context.Context, psychologistID uint64, from, to time.Time) ([]model.AvailabilityBlock, error) {
	const q = `SELECT id,psychologist_id,start_time,end_time,created_at
	           FROM availability_blocks
	           WHERE psychologist_id=? AND start_time>=? AND end_time<=?
	           ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, q, psychologistID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AvailabilityBlock
	for rows.Next() {
		var b model.AvailabilityBlock
		if err := rows.Scan(&b.ID, &b.PsychologistID, &b.StartTime, &b.EndTime, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteByIDAndOwner removes a block, distinguishing a missing row
// (ErrBlockNotFound) from one owned by another psychologist
// (ErrForbidden).
func (r *AvailabilityRepo) DeleteByIDAndOwner(ctx context.Context, id, psychologistID uint64) error {
	var dbOwner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT psychologist_id FROM availability_blocks WHERE id=?", id).Scan(&dbOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBlockNotFound
	}
	if err != nil {
		return err
	}
	if dbOwner != psychologistID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM availability_blocks WHERE id=?", id)
	return err
}
