// Package lease provides the lease domain model and data access.
package lease

import "time"

// Lease ties a tenant (by external identity) to a property for a date
// range. There is no stored status: a lease is "active" at some instant t
// when StartDate <= t < EndDate.
type Lease struct {
	ID              int64     `json:"id"`
	PropertyID      int64     `json:"propertyId"`
	TenantCognitoID string    `json:"tenantCognitoId"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Rent            float64   `json:"rent"`
	Deposit         float64   `json:"deposit"`
}

// ActiveAt reports whether the lease's window contains t.
func (l *Lease) ActiveAt(t time.Time) bool {
	return !t.Before(l.StartDate) && t.Before(l.EndDate)
}
