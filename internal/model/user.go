package model

import "time"

// Role names are stored as-is in the `users.role` column.  The set is
// closed: any other value must be rejected at the API boundary and
// treated as corrupt when read back from the database.
const (
	RolePsychologist = "psicologo"
	RolePatient      = "paciente"
)

// ValidRole reports whether s is one of the two known role names.
func ValidRole(s string) bool {
	return s == RolePsychologist || s == RolePatient
}

// User represents an application user record as stored in the `users`
// table.  Identity (ID, Email) and Role are fixed after registration.
// Handlers define separate response types with JSON tags; this struct is
// used by the repository layer only.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash of the password; the plaintext is never stored.
//  Role         – RolePsychologist or RolePatient.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile holds the presentational data attached to a user.  Each user
// owns at most one profile; psychologist profiles are the ones surfaced
// on the public marketplace listing.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owning user (unique).
//  FullName      – display name shown to patients.
//  PhotoURL      – optional avatar URL.
//  Description   – optional free-text presentation.
//  LicenseNumber – optional professional license number (unique when set).
type Profile struct {
	ID            uint64  // profiles.id
	UserID        uint64  // profiles.user_id
	FullName      string  // profiles.full_name
	PhotoURL      *string // profiles.photo_url (nullable)
	Description   *string // profiles.description (nullable)
	LicenseNumber *string // profiles.license_number (nullable)
}
