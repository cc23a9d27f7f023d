package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notaio/notaio-backend/internal/model"
)

// ProfileRepo encapsulates database queries for user profiles.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// GetByUserID fetches the profile owned by the given user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,full_name,photo_url,description,license_number FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.PhotoURL, &p.Description, &p.LicenseNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// Create inserts a profile row for a user. Each user owns at most one
// profile; a duplicate insert surfaces as a driver error (1062).
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles (user_id, full_name, photo_url, description, license_number) VALUES (?,?,?,?,?)",
		p.UserID, p.FullName, p.PhotoURL, p.Description, p.LicenseNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update overwrites the mutable fields of the profile owned by userID.
// It returns ErrProfileNotFound when the user has no profile row.
func (r *ProfileRepo) Update(ctx context.Context, userID uint64, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET full_name=?, photo_url=?, description=?, license_number=? WHERE user_id=?",
		p.FullName, p.PhotoURL, p.Description, p.LicenseNumber, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update; re-check existence to tell them apart.
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// ListPsychologistProfiles returns the public profiles of all users with
// the psychologist role, for the marketplace listing.
func (r *ProfileRepo) ListPsychologistProfiles(ctx context.Context) ([]model.Profile, error) {
	const q = `SELECT p.id, p.user_id, p.full_name, p.photo_url, p.description, p.license_number
	           FROM profiles p JOIN users u ON u.id = p.user_id
	           WHERE u.role = ? ORDER BY p.id`
	rows, err := r.DB.QueryContext(ctx, q, model.RolePsychologist)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.PhotoURL, &p.Description, &p.LicenseNumber); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
