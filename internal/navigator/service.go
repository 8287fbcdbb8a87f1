// Package navigator composes the full route-building pipeline: query
// analysis, destination selection, path computation, viewport framing
// and the optional assistant comment.
package navigator

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/assistant"
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/geo"
	"github.com/socnav/socnav/internal/lexicon"
	"github.com/socnav/socnav/internal/recommend"
	"github.com/socnav/socnav/internal/routing"
)

var (
	// ErrEmptyQuery means the request carried no query text and no
	// category or profile context to select by.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNoLocation means the client sent no start point. Location
	// acquisition is the client's job; the server never guesses one.
	ErrNoLocation = errors.New("start location required")
)

// Router computes a path between two points.
type Router interface {
	Route(ctx context.Context, from, to geo.Point) routing.Path
}

// Commenter produces the optional route explanation.
type Commenter interface {
	RouteComment(ctx context.Context, p assistant.CommentParams) (string, error)
}

// ServiceConfig wires the navigator's collaborators.
type ServiceConfig struct {
	Analyzer  *lexicon.Analyzer
	Selector  *recommend.Selector
	Router    Router
	Catalog   *catalog.Repository
	Commenter Commenter // optional
	Logger    zerolog.Logger
}

// Service builds routes end to end.
type Service struct {
	analyzer  *lexicon.Analyzer
	selector  *recommend.Selector
	router    Router
	catalog   *catalog.Repository
	commenter Commenter
	logger    zerolog.Logger
}

// NewService creates a navigator service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		analyzer:  cfg.Analyzer,
		selector:  cfg.Selector,
		router:    cfg.Router,
		catalog:   cfg.Catalog,
		commenter: cfg.Commenter,
		logger:    cfg.Logger,
	}
}

// BuildRequest is one route-building task.
type BuildRequest struct {
	Query      string
	Categories map[catalog.Category]bool
	Profile    catalog.Profile
	Origin     *geo.Point
}

// Route is a fully composed route ready for rendering.
type Route struct {
	ID             string
	From           geo.Point
	To             geo.Point
	Destination    catalog.Destination
	Path           []geo.Point
	PathProvider   string
	StraightLine   bool
	DistanceKm     float64
	Viewport       geo.Viewport
	Comment        string
	OriginAdjusted bool
}

// BuildRoute runs the pipeline. Selection errors propagate; path
// computation and the assistant never fail the build.
func (s *Service) BuildRoute(ctx context.Context, req BuildRequest) (*Route, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" && len(req.Categories) == 0 && req.Profile.Empty() {
		return nil, ErrEmptyQuery
	}
	if req.Origin == nil {
		return nil, ErrNoLocation
	}

	origin, adjusted := geo.NormalizeStart(*req.Origin, geo.RegionBounds, geo.RegionCenter)
	if adjusted {
		s.logger.Info().
			Float64("lon", req.Origin.Lon).
			Float64("lat", req.Origin.Lat).
			Msg("start outside service region, using region center")
	}

	analysis := s.analyzer.Analyze(query)

	selection, err := s.selector.Select(ctx, recommend.Request{
		Analysis:   analysis,
		Categories: req.Categories,
		Profile:    req.Profile,
		Origin:     origin,
	})
	if err != nil {
		return nil, err
	}

	path := s.router.Route(ctx, origin, selection.Destination.Position)

	route := &Route{
		ID:             "rt_" + uuid.NewString()[:22],
		From:           origin,
		To:             selection.Destination.Position,
		Destination:    selection.Destination,
		Path:           path.Points,
		PathProvider:   path.Provider,
		StraightLine:   path.Fallback,
		DistanceKm:     selection.DistanceKm,
		Viewport:       geo.FitPath(path.Points),
		OriginAdjusted: adjusted,
	}

	route.Comment = s.comment(ctx, query, req, origin, selection)

	s.logger.Info().
		Str("route_id", route.ID).
		Str("destination_id", selection.Destination.ID).
		Str("path_provider", path.Provider).
		Bool("straight_line", path.Fallback).
		Float64("distance_km", route.DistanceKm).
		Msg("route built")

	return route, nil
}

func (s *Service) comment(ctx context.Context, query string, req BuildRequest, origin geo.Point, sel recommend.Selection) string {
	if s.commenter == nil {
		return ""
	}

	var categories []catalog.Category
	for _, c := range catalog.Categories {
		if req.Categories[c] {
			categories = append(categories, c)
		}
	}

	comment, err := s.commenter.RouteComment(ctx, assistant.CommentParams{
		Query:       query,
		Origin:      origin,
		Profile:     req.Profile,
		Categories:  categories,
		Context:     s.catalog.All(),
		Destination: sel.Destination,
		DistanceKm:  sel.DistanceKm,
	})
	if err != nil {
		if errors.Is(err, assistant.ErrDisabled) {
			s.logger.Debug().Msg("assistant disabled, skipping route comment")
		} else {
			s.logger.Warn().Err(err).Msg("assistant comment failed")
		}
		return ""
	}
	return comment
}
