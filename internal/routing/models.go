// Package routing computes drivable paths between a start point and a
// selected destination, failing over across providers and degrading to
// a straight line rather than erroring.
package routing

import (
	"context"
	"errors"

	"github.com/socnav/socnav/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates the provider answered but produced no usable route.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the provider quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates coordinates outside valid WGS84 ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider computes a driving path between two points. Implementations
// return the raw geometry in [lon, lat] order; plausibility and
// endpoint pinning are the chain's job.
type Provider interface {
	Route(ctx context.Context, from, to geo.Point) ([]geo.Point, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Path is a computed route geometry with its source attribution.
type Path struct {
	Points []geo.Point
	// Provider that produced the geometry, or "fallback" for the
	// synthesized straight line.
	Provider string
	// Fallback is true when every provider failed and the path is the
	// straight two-point segment.
	Fallback bool
}

// DistanceKm returns the cumulative length of the path.
func (p Path) DistanceKm() float64 {
	return geo.PathLengthKm(p.Points)
}

// Error provides detailed error information from a routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}

// ValidateCoordinates checks a point against WGS84 ranges.
func ValidateCoordinates(p geo.Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return ErrInvalidCoordinates
	}
	if p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
