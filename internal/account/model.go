// Package account provides the user account domain model and data access.
// Tenants, buyers, landlords, and managers share one collection,
// distinguished by role.
package account

import "time"

// Role identifies what kind of user an account represents.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleBuyer    Role = "buyer"
	RoleLandlord Role = "landlord"
	RoleManager  Role = "manager"
)

// ValidRole returns true if s is a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleTenant, RoleBuyer, RoleLandlord, RoleManager:
		return true
	}
	return false
}

// HasFavorites reports whether accounts of this role keep a favorites list.
func (r Role) HasFavorites() bool {
	return r == RoleTenant || r == RoleBuyer
}

// Account represents a marketplace user. CognitoID is the identity issued
// by the external provider; ID is the marketplace's own numeric key.
type Account struct {
	ID          int64     `json:"id"`
	CognitoID   string    `json:"cognitoId"`
	Role        Role      `json:"role"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
