package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Stop types of the positional wire form.
const (
	StopDeparture = "departure"
	StopArrival   = "arrival"
	StopEnroute   = "stop"
)

var (
	ErrRouteIncomplete = errors.New("route needs a departure and an arrival")
	ErrInvalidWaypoint = errors.New("waypoint must be either an airport or a custom name")
)

// RouteStop is the stored and transmitted shape of one route position.
type RouteStop struct {
	Type       string `json:"type"`
	AirportID  *uint  `json:"airport_id"`
	IsCustom   bool   `json:"is_custom"`
	CustomName string `json:"custom_name,omitempty"`
}

// Waypoint is a place on a route: a reference airport or a custom named
// location such as a private strip.
type Waypoint struct {
	AirportID  uint
	CustomName string
}

// AirportWaypoint references a reference airport.
func AirportWaypoint(id uint) Waypoint { return Waypoint{AirportID: id} }

// CustomWaypoint names a location with no airport record.
func CustomWaypoint(name string) Waypoint { return Waypoint{CustomName: strings.TrimSpace(name)} }

func (w Waypoint) IsCustom() bool { return w.CustomName != "" }
func (w Waypoint) IsEmpty() bool  { return w.AirportID == 0 && w.CustomName == "" }

// Validate requires exactly one of airport or custom name.
func (w Waypoint) Validate() error {
	if (w.AirportID == 0) == (w.CustomName == "") {
		return ErrInvalidWaypoint
	}
	return nil
}

func (w Waypoint) toStop(kind string) RouteStop {
	stop := RouteStop{Type: kind}
	if w.IsCustom() {
		stop.IsCustom = true
		stop.CustomName = w.CustomName
		return stop
	}
	if w.AirportID != 0 {
		id := w.AirportID
		stop.AirportID = &id
	}
	return stop
}

func waypointFromStop(s RouteStop) Waypoint {
	if s.IsCustom {
		return CustomWaypoint(s.CustomName)
	}
	if s.AirportID != nil {
		return AirportWaypoint(*s.AirportID)
	}
	return Waypoint{}
}

// Route is a flight's path: a departure, an arrival and any intermediate stops.
// The endpoints always exist, so they can be edited but never removed.
type Route struct {
	Departure Waypoint
	Arrival   Waypoint
	Stops     []Waypoint
}

// NewRoute builds a route from departure, intermediate stops and arrival.
func NewRoute(departure, arrival Waypoint, stops ...Waypoint) Route {
	return Route{Departure: departure, Arrival: arrival, Stops: append([]Waypoint(nil), stops...)}
}

// Len counts every position including both endpoints.
func (r Route) Len() int { return len(r.Stops) + 2 }

// Waypoints returns all positions in flight order.
func (r Route) Waypoints() []Waypoint {
	out := make([]Waypoint, 0, r.Len())
	out = append(out, r.Departure)
	out = append(out, r.Stops...)
	return append(out, r.Arrival)
}

// AddStop inserts w immediately before the arrival.
func (r *Route) AddStop(w Waypoint) {
	r.Stops = append(r.Stops, w)
}

// RemoveStop deletes the position at index. Removing the departure (0), the
// arrival (Len()-1) or an out-of-range index is a no-op and returns false.
func (r *Route) RemoveStop(index int) bool {
	if index <= 0 || index >= r.Len()-1 {
		return false
	}
	i := index - 1
	r.Stops = append(r.Stops[:i], r.Stops[i+1:]...)
	return true
}

// SetStop replaces the waypoint at index.
func (r *Route) SetStop(index int, w Waypoint) error {
	switch {
	case index == 0:
		r.Departure = w
	case index == r.Len()-1:
		r.Arrival = w
	case index > 0 && index < r.Len()-1:
		r.Stops[index-1] = w
	default:
		return fmt.Errorf("route position %d out of range", index)
	}
	return nil
}

// AirportIDs lists the referenced airport ids in flight order, duplicates kept.
func (r Route) AirportIDs() []uint {
	var ids []uint
	for _, w := range r.Waypoints() {
		if !w.IsCustom() && w.AirportID != 0 {
			ids = append(ids, w.AirportID)
		}
	}
	return ids
}

// Validate requires both endpoints and well formed waypoints.
func (r Route) Validate() error {
	if r.Departure.IsEmpty() || r.Arrival.IsEmpty() {
		return ErrRouteIncomplete
	}
	for i, w := range r.Waypoints() {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("route position %d: %w", i, err)
		}
	}
	return nil
}

// IsZero reports whether the route has no data at all.
func (r Route) IsZero() bool {
	return r.Departure.IsEmpty() && r.Arrival.IsEmpty() && len(r.Stops) == 0
}

// RouteStops returns the positional wire form.
func (r Route) RouteStops() []RouteStop {
	if r.IsZero() {
		return []RouteStop{}
	}
	out := make([]RouteStop, 0, r.Len())
	out = append(out, r.Departure.toStop(StopDeparture))
	for _, w := range r.Stops {
		out = append(out, w.toStop(StopEnroute))
	}
	return append(out, r.Arrival.toStop(StopArrival))
}

// RouteFromStops rebuilds a route from its wire form. Positions decide the
// role of each stop; the type field is ignored.
func RouteFromStops(stops []RouteStop) Route {
	var r Route
	switch len(stops) {
	case 0:
		return r
	case 1:
		r.Departure = waypointFromStop(stops[0])
		return r
	}
	r.Departure = waypointFromStop(stops[0])
	r.Arrival = waypointFromStop(stops[len(stops)-1])
	for _, s := range stops[1 : len(stops)-1] {
		r.Stops = append(r.Stops, waypointFromStop(s))
	}
	return r
}

func (r Route) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.RouteStops())
}

func (r *Route) UnmarshalJSON(data []byte) error {
	var stops []RouteStop
	if err := json.Unmarshal(data, &stops); err != nil {
		return fmt.Errorf("route_data: %w", err)
	}
	*r = RouteFromStops(stops)
	return nil
}
