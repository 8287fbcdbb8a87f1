// Package models provides request and response models for the HTTP API.
package models

import (
	"time"

	"github.com/socnav/socnav/internal/geo"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// Geo converts the API point to the internal representation.
func (p Point) Geo() geo.Point {
	return geo.Point{Lon: p.Lon, Lat: p.Lat}
}

// NewPoint converts an internal point to the API representation.
func NewPoint(p geo.Point) Point {
	return Point{Lat: p.Lat, Lon: p.Lon}
}

// NewPath converts an internal path to the API representation.
func NewPath(points []geo.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = NewPoint(p)
	}
	return out
}

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Remove quotes
	s := string(data[1 : len(data)-1])
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
