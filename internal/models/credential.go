package models

import "time"

// CredentialRecord is the per-user authentication record. The username is the
// immutable key; the counter and lock fields are mutated only by the login
// policy engine and the administrative unlock.
//
// Invariant: IsLocked implies FailedAttempts >= the configured maximum and
// LastFailedLogin is set.
type CredentialRecord struct {
	Username        string
	PasswordHash    string
	FailedAttempts  int
	LastFailedLogin *time.Time
	IsLocked        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClearLock resets the failure counter and lock state in place.
func (c *CredentialRecord) ClearLock() {
	c.FailedAttempts = 0
	c.IsLocked = false
	c.LastFailedLogin = nil
}
