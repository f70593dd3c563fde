// Package passcode generates short numeric codes for one-time-passcode
// challenges.
package passcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// DefaultLength is the number of digits in a generated code.
const DefaultLength = 6

// ErrInvalidLength is returned for lengths outside the supported range.
var ErrInvalidLength = errors.New("passcode: length must be between 4 and 10")

// Generator produces one-time passcodes.
type Generator interface {
	// Generate returns a freshly generated code.
	Generate() (string, error)
}

// Numeric generates zero-padded decimal codes from a cryptographically
// secure source. The zero value is not usable, use NewNumeric.
type Numeric struct {
	length int
	max    *big.Int
}

// NewNumeric constructs a Numeric generator producing codes of the
// given digit count. A non-positive length falls back to DefaultLength.
func NewNumeric(length int) (*Numeric, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if length < 4 || length > 10 {
		return nil, ErrInvalidLength
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	return &Numeric{length: length, max: max}, nil
}

// Generate returns a uniformly random code, zero padded to the
// configured length.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.max)
	if err != nil {
		return "", fmt.Errorf("passcode: read random: %w", err)
	}

	return fmt.Sprintf("%0*d", n.length, v), nil
}
