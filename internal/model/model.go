// Package model defines domain entities used by services and repositories.
package model

import "time"

// AdminUsername is the only identity allowed to run administrative operations.
const AdminUsername = "admin"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	Username string
}

// IsAdmin reports whether the identity may run administrative operations.
func (i Identity) IsAdmin() bool { return i.Username == AdminUsername }

// Tokens collects an issued access token.
type Tokens struct {
	AccessToken string
	TokenType   string    // always "bearer"
	ExpiresAt   time.Time // access token expiry (for clients caching the token)
}

// Export is a rendered purchase-order report.
type Export struct {
	Filename       string
	Content        string
	EquipmentCount int
	ArchiveKey     string // empty when no archive is configured
}
