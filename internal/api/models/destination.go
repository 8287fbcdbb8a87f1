package models

import "github.com/socnav/socnav/internal/catalog"

// Destination represents a catalog destination in API responses.
type Destination struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	Description   string        `json:"description,omitempty"`
	Address       string        `json:"address"`
	Position      Point         `json:"position"`
	Accessibility Accessibility `json:"accessibility"`
}

// Accessibility describes which accessibility dimensions a destination supports.
type Accessibility struct {
	Vision     bool `json:"vision"`
	Hearing    bool `json:"hearing"`
	Wheelchair bool `json:"wheelchair"`
	Mobility   bool `json:"mobility"`
	Mental     bool `json:"mental"`
}

// NewDestination converts a catalog destination to the API representation.
func NewDestination(d *catalog.Destination) Destination {
	return Destination{
		ID:          d.ID,
		Name:        d.Name,
		Category:    string(d.Category),
		Description: d.Description,
		Address:     d.Address,
		Position:    NewPoint(d.Position),
		Accessibility: Accessibility{
			Vision:     d.Accessibility.Vision,
			Hearing:    d.Accessibility.Hearing,
			Wheelchair: d.Accessibility.Wheelchair,
			Mobility:   d.Accessibility.Mobility,
			Mental:     d.Accessibility.Mental,
		},
	}
}

// DestinationList is the response for listing destinations.
type DestinationList struct {
	Objects []Destination `json:"objects"`
	Total   int           `json:"total"`
}
