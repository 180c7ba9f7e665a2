package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/buildcrew/crew-management-api/internal/constants"
)

// GeneratePIN generates a random 4-digit PIN. Uniqueness across workers is
// enforced by the caller against the store.
func GeneratePIN() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < constants.PINLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random PIN: %w", err)
	}

	return fmt.Sprintf("%0*d", constants.PINLength, n), nil
}

// ValidPIN reports whether pin is exactly four ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) != constants.PINLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
