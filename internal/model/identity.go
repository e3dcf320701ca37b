package model

import (
	"strings"
	"time"
)

type IdentityID string

// Role is the classification stored on an identity record. The role used
// for authorization decisions is computed fresh by the role policy; the
// stored value is a cache kept warm by reconciliation.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Identity struct {
	ID          IdentityID `db:"ID"`
	Email       string     `db:"Email"`
	Credential  *string    `db:"Credential"`
	StoredRole  Role       `db:"StoredRole"`
	IsVerified  bool       `db:"IsVerified"`
	FederatedID *string    `db:"FederatedID"`
	DisplayName string     `db:"DisplayName"`
	CreatedAt   time.Time  `db:"CreatedAt"`
}

// NormalizeEmail trims and lowercases an address. Every email comparison
// and store lookup goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
