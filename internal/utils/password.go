package utils

import "golang.org/x/crypto/bcrypt"

// dummyHash is a valid bcrypt hash of a random string nobody knows.
// Login paths compare against it when the email is unknown so that the
// request pays the same hashing cost either way and timing cannot be
// used to enumerate registered emails.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
// A malformed or foreign-format hash is a verification failure, not an
// error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck runs a bcrypt comparison against a throwaway hash.
// Called on login attempts for unknown emails so their duration is
// indistinguishable from a wrong-password attempt.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
