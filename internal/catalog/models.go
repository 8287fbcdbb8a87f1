// Package catalog holds the static registry of mapped social
// infrastructure destinations and their accessibility records.
package catalog

import (
	"fmt"

	"github.com/socnav/socnav/internal/geo"
)

// Category classifies a destination. The set is closed; unknown values
// are rejected at load time.
type Category string

const (
	CategoryHealthcare Category = "healthcare"
	CategoryCulture    Category = "culture"
	CategorySocial     Category = "social"
	CategoryMarket     Category = "market"
)

// Categories lists every valid category in presentation order.
var Categories = []Category{CategoryHealthcare, CategoryCulture, CategorySocial, CategoryMarket}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryHealthcare, CategoryCulture, CategorySocial, CategoryMarket:
		return true
	}
	return false
}

// Flag is one accessibility dimension a visitor may require.
type Flag string

const (
	FlagVision     Flag = "vision"
	FlagHearing    Flag = "hearing"
	FlagWheelchair Flag = "wheelchair"
	FlagMobility   Flag = "mobility"
	FlagMental     Flag = "mental"
)

// Flags lists every accessibility dimension.
var Flags = []Flag{FlagVision, FlagHearing, FlagWheelchair, FlagMobility, FlagMental}

// Valid reports whether f is a known accessibility dimension.
func (f Flag) Valid() bool {
	switch f {
	case FlagVision, FlagHearing, FlagWheelchair, FlagMobility, FlagMental:
		return true
	}
	return false
}

// Profile is the set of accessibility needs a visitor declared.
// An empty profile imposes no constraint.
type Profile map[Flag]bool

// NewProfile builds a profile from flag names, rejecting unknown ones.
func NewProfile(flags ...Flag) (Profile, error) {
	p := make(Profile, len(flags))
	for _, f := range flags {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown accessibility flag %q", f)
		}
		p[f] = true
	}
	return p, nil
}

// Empty reports whether the profile imposes no constraint.
func (p Profile) Empty() bool { return len(p) == 0 }

// Accessibility is a destination's per-dimension support record.
type Accessibility struct {
	Vision     bool `json:"vision"`
	Hearing    bool `json:"hearing"`
	Wheelchair bool `json:"wheelchair"`
	Mobility   bool `json:"mobility"`
	Mental     bool `json:"mental"`
}

// Supports reports whether the record covers a single dimension.
func (a Accessibility) Supports(f Flag) bool {
	switch f {
	case FlagVision:
		return a.Vision
	case FlagHearing:
		return a.Hearing
	case FlagWheelchair:
		return a.Wheelchair
	case FlagMobility:
		return a.Mobility
	case FlagMental:
		return a.Mental
	}
	return false
}

// Destination is one mapped object of the region's social infrastructure.
type Destination struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Description   string        `json:"description"`
	Address       string        `json:"address"`
	Position      geo.Point     `json:"position"`
	Accessibility Accessibility `json:"accessibility"`
}

// IsAccessible reports whether the destination satisfies every
// dimension the profile requests. The empty profile always passes.
func (d Destination) IsAccessible(p Profile) bool {
	for f, required := range p {
		if required && !d.Accessibility.Supports(f) {
			return false
		}
	}
	return true
}
