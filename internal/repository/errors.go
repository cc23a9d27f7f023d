// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers to distinguish failure scenarios: ErrForbidden means the
// caller is not the owner of the resource it tried to touch, while the
// *NotFound values mean no such row exists at all. Keeping the two
// apart is what lets handlers answer 403 vs 404 correctly.
package repository

import "errors"

// ErrEmailExists is returned when registration collides with an
// already-registered email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no row. The
// authentication gate maps this to its own "account gone" answer so a
// deleted account with a still-live token is distinguishable from a bad
// token.
var ErrUserNotFound = errors.New("user not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrPatientNotFound is returned when a patient row does not exist.
var ErrPatientNotFound = errors.New("patient not found")

// ErrAppointmentNotFound is returned when an appointment row does not exist.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrBlockNotFound is returned when an availability block does not exist.
var ErrBlockNotFound = errors.New("availability block not found")

// ErrProfileNotFound is returned when a user has no profile row yet.
var ErrProfileNotFound = errors.New("profile not found")
