package domain

import (
	"strings"
	"time"
)

// Role names carried as role claims on user accounts.
const (
	RoleClient = "Client"
	RoleSeller = "Seller"
	RoleAdmin  = "Admin"
)

// Claim types attached to a user at registration.
const (
	ClaimTypeNameIdentifier = "name_identifier"
	ClaimTypeEmail          = "email"
	ClaimTypeGivenName      = "given_name"
	ClaimTypeSurname        = "surname"
	ClaimTypeRole           = "role"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	ProfileImage *string
	LockoutEnd   *time.Time
	CreatedAt    time.Time
}

// IsLockedOut reports whether the account is blocked at the given instant.
func (u User) IsLockedOut(at time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(at)
}

// DisplayName returns the name shown to chat counterparts.
func (u User) DisplayName() string {
	return u.FirstName
}

// UserClaim is a typed assertion attached to a user account.
type UserClaim struct {
	UserID string
	Type   string
	Value  string
}

// RoleOf extracts the role claim value from a claim set, defaulting to Client.
func RoleOf(claims []UserClaim) string {
	for _, c := range claims {
		if c.Type == ClaimTypeRole && c.Value != "" {
			return c.Value
		}
	}
	return RoleClient
}

// HasRole reports whether any of the provided roles matches the wanted role.
// Shared by the authorization middleware and handler-level checks so the
// predicate is derived in exactly one place.
func HasRole(roles []string, wanted string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, wanted) {
			return true
		}
	}
	return false
}

// RefreshToken is a long-lived opaque credential persisted per user. The raw
// token string is stored because login reuses the active token verbatim.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedOn time.Time
	ExpiresOn time.Time
	RevokedOn *time.Time
}

// IsExpired reports whether the token has elapsed its validity window.
func (t RefreshToken) IsExpired(at time.Time) bool {
	return !t.ExpiresOn.After(at)
}

// IsRevoked reports whether the token has been explicitly revoked.
func (t RefreshToken) IsRevoked() bool {
	return t.RevokedOn != nil
}

// IsActive returns true when the token can still be presented for rotation.
func (t RefreshToken) IsActive(at time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(at)
}

// Revoke marks the token as revoked. Returns true if the token transitioned
// to the revoked state.
func (t *RefreshToken) Revoke(at time.Time) bool {
	if t.RevokedOn != nil {
		return false
	}
	timeCopy := at
	t.RevokedOn = &timeCopy
	return true
}
