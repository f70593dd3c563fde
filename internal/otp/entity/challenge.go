package entity

import "time"

// Challenge is a pending one-time-passcode challenge keyed by phone number.
//
// Only the keyed digest of the code is stored. The plaintext code exists
// for the duration of delivery and is never persisted.
type Challenge struct {
	Phone     string
	CodeHash  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Attempts  int
}

// ExpiredAt reports whether the challenge is expired at the given instant.
// A challenge expires strictly after its deadline, so a verification at
// exactly ExpiresAt still succeeds.
func (c Challenge) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
