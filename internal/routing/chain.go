package routing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/geo"
)

const (
	// FallbackProviderName marks a synthesized straight-line path.
	FallbackProviderName = "fallback"

	defaultProviderTimeout = 5 * time.Second

	// A usable road geometry has intermediate points; exactly two
	// points is indistinguishable from the straight-line fallback.
	minPlausiblePoints = 3
)

// ChainConfig configures the provider failover chain.
type ChainConfig struct {
	// Providers in strict priority order.
	Providers []Provider

	// ProviderTimeout bounds each individual provider attempt
	// (optional, defaults to 5s).
	ProviderTimeout time.Duration

	// Logger for chain operations.
	Logger zerolog.Logger
}

// Chain tries providers in order and degrades to a straight line when
// all of them fail. Route composition as a whole never errors.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewChain creates a failover chain, filling config defaults.
func NewChain(cfg ChainConfig) *Chain {
	timeout := cfg.ProviderTimeout
	if timeout == 0 {
		timeout = defaultProviderTimeout
	}
	return &Chain{
		providers: cfg.Providers,
		timeout:   timeout,
		logger:    cfg.Logger,
	}
}

// Route returns the first plausible provider path, pinned to the exact
// request endpoints, or the straight two-point segment when every
// provider fails or the coordinates are invalid.
func (c *Chain) Route(ctx context.Context, from, to geo.Point) Path {
	straight := Path{Points: []geo.Point{from, to}, Provider: FallbackProviderName, Fallback: true}

	if ValidateCoordinates(from) != nil || ValidateCoordinates(to) != nil {
		return straight
	}

	for _, p := range c.providers {
		points, err := c.tryProvider(ctx, p, from, to)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("provider", p.Name()).
				Msg("routing provider failed, advancing chain")
			continue
		}
		if len(points) < minPlausiblePoints {
			c.logger.Warn().
				Str("provider", p.Name()).
				Int("points", len(points)).
				Msg("implausible geometry, advancing chain")
			continue
		}
		return Path{Points: pinEndpoints(points, from, to), Provider: p.Name()}
	}

	c.logger.Info().
		Float64("from_lon", from.Lon).
		Float64("from_lat", from.Lat).
		Float64("to_lon", to.Lon).
		Float64("to_lat", to.Lat).
		Msg("all routing providers failed, using straight line")

	return straight
}

func (c *Chain) tryProvider(ctx context.Context, p Provider, from, to geo.Point) ([]geo.Point, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.Route(attemptCtx, from, to)
}

// pinEndpoints guarantees the drawn path starts and ends exactly at
// the requested points, regardless of provider snapping.
func pinEndpoints(points []geo.Point, from, to geo.Point) []geo.Point {
	out := make([]geo.Point, 0, len(points)+2)
	if points[0] != from {
		out = append(out, from)
	}
	out = append(out, points...)
	if points[len(points)-1] != to {
		out = append(out, to)
	}
	return out
}
