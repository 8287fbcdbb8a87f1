// Package geo holds the coordinate primitives shared by the catalog,
// the recommender and the routing providers. Points are stored as
// [longitude, latitude], matching the GeoJSON order used on the wire.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate in longitude/latitude order.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// DistanceKm returns the great-circle distance between two points using
// the haversine formula.
func DistanceKm(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PathLengthKm sums the haversine distance over consecutive path points.
func PathLengthKm(path []Point) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += DistanceKm(path[i-1], path[i])
	}
	return total
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Bounds is an axis-aligned coordinate envelope.
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Contains reports whether p lies inside the envelope, borders included.
func (b Bounds) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Clamp snaps p onto the envelope along each axis independently.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		Lon: math.Max(b.MinLon, math.Min(b.MaxLon, p.Lon)),
		Lat: math.Max(b.MinLat, math.Min(b.MaxLat, p.Lat)),
	}
}

// Envelope returns the tight bounds around a non-empty path.
func Envelope(path []Point) Bounds {
	b := Bounds{
		MinLon: path[0].Lon, MaxLon: path[0].Lon,
		MinLat: path[0].Lat, MaxLat: path[0].Lat,
	}
	for _, p := range path[1:] {
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
	}
	return b
}

// Tula region service area. Starts outside this envelope are treated as
// unusable and replaced with the region center.
var (
	RegionBounds = Bounds{MinLon: 35.5, MinLat: 53.0, MaxLon: 39.5, MaxLat: 54.8}
	RegionCenter = Point{Lon: 37.6, Lat: 54.2}
)

// NormalizeStart returns a start point guaranteed to lie inside bounds.
// Out-of-region points are replaced with fallback; the second return
// value reports whether a substitution happened. Applying the function
// to its own output is a no-op as long as fallback is inside bounds.
func NormalizeStart(p Point, bounds Bounds, fallback Point) (Point, bool) {
	if bounds.Contains(p) {
		return p, false
	}
	return fallback, true
}
