package geo

// Viewport is a deterministic map framing for a drawn path: a center
// inside the service region and a discrete zoom level.
type Viewport struct {
	Center Point `json:"center"`
	Zoom   int   `json:"zoom"`
}

const (
	minZoom = 8
	maxZoom = 16
)

// zoomSteps maps the larger envelope dimension (degrees) to a zoom
// level. Checked in order; the first threshold not exceeded wins.
var zoomSteps = []struct {
	span float64
	zoom int
}{
	{2.0, minZoom},
	{1.0, 9},
	{0.5, 10},
	{0.25, 11},
	{0.1, 12},
	{0.05, 13},
	{0.02, 14},
	{0.008, 15},
}

// FitPath derives the viewport framing a path: the envelope midpoint
// clamped into the region, and a zoom from the fixed breakpoint table
// keyed by the envelope's larger dimension. Degenerate paths (single
// point, or a short straight segment) land on maxZoom; the zoom never
// drops below minZoom no matter how large the envelope is.
func FitPath(path []Point) Viewport {
	if len(path) == 0 {
		return Viewport{Center: RegionCenter, Zoom: minZoom}
	}

	env := Envelope(path)
	center := RegionBounds.Clamp(Point{
		Lon: (env.MinLon + env.MaxLon) / 2,
		Lat: (env.MinLat + env.MaxLat) / 2,
	})

	span := env.MaxLon - env.MinLon
	if h := env.MaxLat - env.MinLat; h > span {
		span = h
	}

	zoom := maxZoom
	for _, step := range zoomSteps {
		if span >= step.span {
			zoom = step.zoom
			break
		}
	}

	return Viewport{Center: center, Zoom: zoom}
}
