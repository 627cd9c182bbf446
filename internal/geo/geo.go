package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"pilot_logbook/internal/models"
)

const (
	earthRadiusMeters = 6371000
	metersPerNM       = 1852
)

// ErrUnresolvedRoute is returned when a route position has no coordinates.
var ErrUnresolvedRoute = errors.New("route has positions without coordinates")

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RouteDistanceNM sums the leg lengths of route in nautical miles. It returns
// 0 when any position is a custom place or an airport without coordinates.
func RouteDistanceNM(route models.Route, airports map[uint]models.Airport) float64 {
	points, err := routePoints(route, airports)
	if err != nil || len(points) < 2 {
		return 0
	}
	var meters float64
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		meters += Distance(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	}
	return math.Round(meters/metersPerNM*10) / 10
}

func routePoints(route models.Route, airports map[uint]models.Airport) ([]models.Airport, error) {
	var points []models.Airport
	for _, w := range route.Waypoints() {
		if w.IsCustom() {
			return nil, ErrUnresolvedRoute
		}
		a, ok := airports[w.AirportID]
		if !ok || !a.HasLocation() {
			return nil, ErrUnresolvedRoute
		}
		points = append(points, a)
	}
	return points, nil
}

// RouteLineString builds a lon/lat LineString over the resolvable positions of route.
// Custom places and airports without coordinates are skipped.
func RouteLineString(route models.Route, airports map[uint]models.Airport) (*geom.LineString, error) {
	var coords []geom.Coord
	for _, w := range route.Waypoints() {
		if w.IsCustom() {
			continue
		}
		a, ok := airports[w.AirportID]
		if !ok || !a.HasLocation() {
			continue
		}
		coords = append(coords, geom.Coord{a.Longitude, a.Latitude})
	}
	if len(coords) < 2 {
		return nil, ErrUnresolvedRoute
	}
	return geom.NewLineString(geom.XY).SetSRID(4326).SetCoords(coords)
}

// RouteFeature renders route as a GeoJSON Feature with the given properties.
func RouteFeature(route models.Route, airports map[uint]models.Airport, props map[string]interface{}) (*gjson.Feature, error) {
	ls, err := RouteLineString(route, airports)
	if err != nil {
		return nil, err
	}
	return &gjson.Feature{Geometry: ls, Properties: props}, nil
}
