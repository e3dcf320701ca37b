package model

import "time"

// OneTimeCode proves control of an email address during registration.
// Rows are history, never pruned; validity is computed from CreatedAt and
// Used at check time, not stored.
type OneTimeCode struct {
	Email     string    `db:"Email"`
	Code      string    `db:"Code"`
	CreatedAt time.Time `db:"CreatedAt"`
	Used      bool      `db:"Used"`
}
