// Package geo parses the WKT coordinate strings stored on locations.
package geo

import (
	"regexp"
	"strconv"
)

// Point is a longitude/latitude pair extracted from a WKT POINT.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

var pointRe = regexp.MustCompile(`(?i)^\s*point\s*\(\s*([^\s()]+)\s+([^\s()]+)\s*\)\s*$`)

// ParsePoint extracts longitude and latitude from a WKT string like
// "POINT(-118.14 34.15)". It returns nil for empty, non-matching, or
// non-numeric input; missing coordinates are a normal outcome, not an error.
func ParsePoint(s string) *Point {
	m := pointRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	lng, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}

	return &Point{Longitude: lng, Latitude: lat}
}
