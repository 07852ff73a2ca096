// Package property provides the property domain model and data access.
package property

import "time"

// Property represents a listed rental property. LocationID references a
// locations row by numeric id; the reference is not enforced and may dangle.
type Property struct {
	ID               int64     `json:"id"`
	LocationID       int64     `json:"locationId"`
	ManagerCognitoID string    `json:"managerCognitoId,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	PropertyType     *string   `json:"propertyType,omitempty"`
	Beds             *float64  `json:"beds,omitempty"`
	Baths            *float64  `json:"baths,omitempty"`
	SquareFeet       *int64    `json:"squareFeet,omitempty"`
	PricePerMonth    float64   `json:"pricePerMonth"`
	SecurityDeposit  *float64  `json:"securityDeposit,omitempty"`
	ApplicationFee   *float64  `json:"applicationFee,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
