package model

import "time"

// Patient is a clinical record kept by exactly one psychologist.  The
// OwnerID column is the ownership anchor every access check compares
// against; a patient record is never visible to any other user.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – users.id of the psychologist who keeps this record.
//  Name      – patient name.
//  Age       – patient age in years.
//  DNI       – optional national identity document number.
//  Phone     – optional contact phone.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Patient struct {
	ID        uint64    // patients.id
	OwnerID   uint64    // patients.owner_id
	Name      string    // patients.name
	Age       int       // patients.age
	DNI       *string   // patients.dni (nullable)
	Phone     *string   // patients.phone (nullable)
	CreatedAt time.Time // patients.created_at
	UpdatedAt time.Time // patients.updated_at
}
