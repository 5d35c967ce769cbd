package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password at the given cost. A cost of
// zero selects PasswordCost. The temporary byte copy is wiped before returning.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = PasswordCost
	}
	b := []byte(password)
	defer Wipe(b)

	hash, err := bcrypt.GenerateFromPassword(b, cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
