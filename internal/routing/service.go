package routing

import (
	"context"
	"fmt"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/geo"
)

const (
	defaultCacheTTL = 5 * time.Minute

	// cacheGridDegrees quantizes endpoints for cache keys so nearby
	// requests share a computed path (~1km cells at this latitude).
	cacheGridDegrees = 0.01
)

// ServiceConfig configures the caching routing service.
type ServiceConfig struct {
	Chain *Chain

	// CacheTTL is how long computed paths stay cached (optional,
	// defaults to 5m).
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fronts the failover chain with a short-lived path cache.
type Service struct {
	chain  *Chain
	cache  *gocache.Cache
	logger zerolog.Logger
}

// NewService creates a routing service, filling config defaults.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		chain:  cfg.Chain,
		cache:  gocache.New(ttl, 2*ttl),
		logger: cfg.Logger,
	}
}

// Route returns a path between from and to, served from cache when a
// recent request landed in the same coordinate cells. Fallback paths
// are not cached so a provider recovery is picked up immediately.
func (s *Service) Route(ctx context.Context, from, to geo.Point) Path {
	key := cacheKey(from, to)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("cache_key", key).Msg("route cache hit")
		// Grid cells group nearby requests, so the cached geometry may
		// start a few hundred meters away. Pin it to this request's
		// exact endpoints before handing it out.
		hit := cached.(Path)
		hit.Points = pinEndpoints(hit.Points, from, to)
		return hit
	}

	path := s.chain.Route(ctx, from, to)
	if !path.Fallback {
		s.cache.Set(key, path, gocache.DefaultExpiration)
	}
	return path
}

func cacheKey(from, to geo.Point) string {
	return fmt.Sprintf("route:%d:%d:%d:%d",
		gridCell(from.Lon), gridCell(from.Lat),
		gridCell(to.Lon), gridCell(to.Lat))
}

func gridCell(v float64) int {
	return int(math.Floor(v / cacheGridDegrees))
}
