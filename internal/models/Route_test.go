package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteRemoveEndpointsIsNoop(t *testing.T) {
	r := NewRoute(AirportWaypoint(1), AirportWaypoint(2), CustomWaypoint("Strip"))
	before := r.Waypoints()

	assert.False(t, r.RemoveStop(0))
	assert.False(t, r.RemoveStop(r.Len()-1))
	assert.False(t, r.RemoveStop(-1))
	assert.False(t, r.RemoveStop(10))
	assert.Equal(t, before, r.Waypoints())

	assert.True(t, r.RemoveStop(1))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []Waypoint{AirportWaypoint(1), AirportWaypoint(2)}, r.Waypoints())
}

func TestRouteAddStopBeforeArrival(t *testing.T) {
	r := NewRoute(AirportWaypoint(1), AirportWaypoint(2))
	r.AddStop(AirportWaypoint(3))
	r.AddStop(CustomWaypoint("Farm"))

	assert.Equal(t, []Waypoint{AirportWaypoint(1), AirportWaypoint(3), CustomWaypoint("Farm"), AirportWaypoint(2)}, r.Waypoints())
	assert.Equal(t, []uint{1, 3, 2}, r.AirportIDs())
}

func TestRouteSetStop(t *testing.T) {
	r := NewRoute(AirportWaypoint(1), AirportWaypoint(2), AirportWaypoint(3))
	require.NoError(t, r.SetStop(0, AirportWaypoint(9)))
	require.NoError(t, r.SetStop(1, CustomWaypoint("Farm")))
	require.NoError(t, r.SetStop(2, AirportWaypoint(8)))
	assert.Error(t, r.SetStop(3, AirportWaypoint(7)))

	assert.Equal(t, NewRoute(AirportWaypoint(9), AirportWaypoint(8), CustomWaypoint("Farm")), r)
}

func TestRouteValidate(t *testing.T) {
	assert.ErrorIs(t, Route{}.Validate(), ErrRouteIncomplete)
	assert.ErrorIs(t, NewRoute(AirportWaypoint(1), Waypoint{}).Validate(), ErrRouteIncomplete)
	assert.ErrorIs(t, NewRoute(AirportWaypoint(1), Waypoint{AirportID: 2, CustomName: "x"}).Validate(), ErrInvalidWaypoint)
	assert.ErrorIs(t, NewRoute(AirportWaypoint(1), AirportWaypoint(2), Waypoint{}).Validate(), ErrInvalidWaypoint)
	assert.NoError(t, NewRoute(AirportWaypoint(1), CustomWaypoint("Strip")).Validate())
}

func TestRouteJSONIsPositional(t *testing.T) {
	r := NewRoute(AirportWaypoint(12), AirportWaypoint(15), CustomWaypoint("Private Strip"))
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"departure","airport_id":12,"is_custom":false},
		{"type":"stop","airport_id":null,"is_custom":true,"custom_name":"Private Strip"},
		{"type":"arrival","airport_id":15,"is_custom":false}
	]`, string(raw))

	var decoded Route
	require.NoError(t, json.Unmarshal([]byte(`[
		{"type":"arrival","airport_id":12},
		{"type":"departure","is_custom":true,"custom_name":"Private Strip"},
		{"type":"stop","airport_id":15}
	]`), &decoded))
	assert.Equal(t, r, decoded)
}

func TestRouteEmptyJSON(t *testing.T) {
	raw, err := json.Marshal(Route{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	var decoded Route
	require.NoError(t, json.Unmarshal([]byte(`[]`), &decoded))
	assert.True(t, decoded.IsZero())
}
