// Package location provides the location domain model and data access.
package location

import "github.com/rentfolio/rentfolio/internal/geo"

// Location is a postal address with optional coordinates. Coordinates are
// stored as a raw WKT string and parsed only on the way out; malformed or
// absent values degrade to "no coordinates".
type Location struct {
	ID         int64  `json:"id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`

	// Coordinates holds the stored WKT string, e.g. "POINT(-118.14 34.15)".
	Coordinates string `json:"-"`
}

// View is the read-side shape of a location: the WKT string replaced by a
// parsed point, or null when there is nothing usable to parse.
type View struct {
	ID          int64      `json:"id"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	PostalCode  string     `json:"postalCode,omitempty"`
	Coordinates *geo.Point `json:"coordinates"`
}

// View returns the location with its coordinates parsed.
func (l *Location) View() *View {
	return &View{
		ID:          l.ID,
		Address:     l.Address,
		City:        l.City,
		State:       l.State,
		Country:     l.Country,
		PostalCode:  l.PostalCode,
		Coordinates: geo.ParsePoint(l.Coordinates),
	}
}
