// Package osrm provides a client for OSRM-compatible routing mirrors.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/geo"
	"github.com/socnav/socnav/internal/provider/resilience"
	"github.com/socnav/socnav/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 5 * time.Second
)

// DefaultMirrors are the public OSRM instances, tried in order.
var DefaultMirrors = []string{
	"https://router.project-osrm.org",
	"https://routing.openstreetmap.de/routed-car",
}

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// Mirrors are the base URLs to try in order (optional, defaults
	// to the public instances).
	Mirrors []string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 5s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client queries OSRM mirrors for driving routes.
type Client struct {
	mirrors    []string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	mirrors := cfg.Mirrors
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		mirrors:    mirrors,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Route queries each mirror in order and returns the first well-formed
// driving geometry in [lon, lat] order.
func (c *Client) Route(ctx context.Context, from, to geo.Point) ([]geo.Point, error) {
	var lastErr error
	for _, base := range c.mirrors {
		points, err := c.routeVia(ctx, base, from, to)
		if err != nil {
			c.logger.Debug().Err(err).Str("mirror", base).Msg("osrm mirror failed")
			lastErr = err
			continue
		}
		return points, nil
	}
	if lastErr == nil {
		lastErr = routing.ErrProviderUnavailable
	}
	return nil, &routing.Error{
		Provider: ProviderName,
		Code:     "ALL_MIRRORS_FAILED",
		Message:  "every osrm mirror failed",
		Err:      lastErr,
	}
}

func (c *Client) routeVia(ctx context.Context, base string, from, to geo.Point) ([]geo.Point, error) {
	url := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&steps=false&alternatives=false",
		base, from.Lon, from.Lat, to.Lon, to.Lat)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", routing.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: mirror %s", routing.ErrRateLimitExceeded, base)
		}
		return nil, fmt.Errorf("%w: mirror %s returned status %d", routing.ErrProviderUnavailable, base, resp.StatusCode)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		return nil, fmt.Errorf("%w: code %q", routing.ErrNoRouteFound, osrmResp.Code)
	}

	coords := osrmResp.Routes[0].Geometry.Coordinates
	points := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		points = append(points, geo.Point{Lon: c[0], Lat: c[1]})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty geometry", routing.ErrNoRouteFound)
	}

	c.logger.Debug().
		Str("mirror", base).
		Int("points", len(points)).
		Msg("received route from osrm")

	return points, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}
