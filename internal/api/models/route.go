package models

import (
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/navigator"
)

// RouteBuildRequest is the request body for building a route.
type RouteBuildRequest struct {
	// Query is the user's free-text destination request.
	Query string `json:"query"`

	// Categories restricts the search to the named categories.
	Categories []string `json:"categories,omitempty"`

	// Profile lists the accessibility flags the user requires.
	Profile []string `json:"profile,omitempty"`

	// Origin is the user's current location.
	Origin *Point `json:"origin"`
}

// ToBuildRequest converts the API request to the navigator's form,
// rejecting unknown categories and accessibility flags.
func (r *RouteBuildRequest) ToBuildRequest() (navigator.BuildRequest, []FieldError) {
	var errs []FieldError

	categories := make(map[catalog.Category]bool, len(r.Categories))
	for _, c := range r.Categories {
		cat := catalog.Category(c)
		if !cat.Valid() {
			errs = append(errs, FieldError{
				Field:   "categories",
				Message: "unknown category: " + c,
				Code:    "INVALID_VALUE",
			})
			continue
		}
		categories[cat] = true
	}

	flags := make([]catalog.Flag, len(r.Profile))
	for i, f := range r.Profile {
		flags[i] = catalog.Flag(f)
	}
	profile, err := catalog.NewProfile(flags...)
	if err != nil {
		errs = append(errs, FieldError{
			Field:   "profile",
			Message: err.Error(),
			Code:    "INVALID_VALUE",
		})
	}

	req := navigator.BuildRequest{
		Query:      r.Query,
		Categories: categories,
		Profile:    profile,
	}
	if r.Origin != nil {
		origin := r.Origin.Geo()
		req.Origin = &origin
	}

	return req, errs
}

// Viewport describes the suggested map view for a route.
type Viewport struct {
	Center Point `json:"center"`
	Zoom   int   `json:"zoom"`
}

// RouteResponse is the response for a built route.
type RouteResponse struct {
	ID             string      `json:"id"`
	From           Point       `json:"from"`
	To             Point       `json:"to"`
	Destination    Destination `json:"destination"`
	Path           []Point     `json:"path"`
	PathProvider   string      `json:"pathProvider"`
	StraightLine   bool        `json:"straightLine"`
	DistanceKm     float64     `json:"distanceKm"`
	Viewport       Viewport    `json:"viewport"`
	Comment        string      `json:"comment,omitempty"`
	OriginAdjusted bool        `json:"originAdjusted"`
}

// NewRouteResponse converts a navigator route to the API representation.
func NewRouteResponse(route *navigator.Route) RouteResponse {
	return RouteResponse{
		ID:             route.ID,
		From:           NewPoint(route.From),
		To:             NewPoint(route.To),
		Destination:    NewDestination(&route.Destination),
		Path:           NewPath(route.Path),
		PathProvider:   route.PathProvider,
		StraightLine:   route.StraightLine,
		DistanceKm:     route.DistanceKm,
		Viewport: Viewport{
			Center: NewPoint(route.Viewport.Center),
			Zoom:   route.Viewport.Zoom,
		},
		Comment:        route.Comment,
		OriginAdjusted: route.OriginAdjusted,
	}
}
