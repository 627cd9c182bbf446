package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilot_logbook/internal/models"
)

func TestAPIErrorFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"aircraft already exists"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateAircraft(context.Background(), models.UserAircraft{UserID: 1, Registration: "VH-TAE"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.Contains(t, err.Error(), "aircraft already exists")
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Statistics(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestRequestShape(t *testing.T) {
	var got *http.Request
	var body map[string][]uint
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"3":{"id":3,"icao":"YSSY"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", WithToken("tok"))
	airports, err := c.AirportsByIDs(context.Background(), []uint{3})
	require.NoError(t, err)

	assert.Equal(t, "/api/airports/batch", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, []uint{3}, body["ids"])
	assert.Equal(t, "YSSY", airports[3].ICAO)
}

func TestAirportsByIDsSkipsEmpty(t *testing.T) {
	c := New("http://127.0.0.1:1")
	airports, err := c.AirportsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, airports)
}

func TestLookupEscapesRegistration(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Write([]byte(`{"found":false}`))
	}))
	defer srv.Close()

	_, found, err := New(srv.URL).LookupAircraft(context.Background(), 4, "VH/X Y")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "/user-aircraft/4/registration/VH%2FX%20Y", path)
}

func TestUpdateEntry(t *testing.T) {
	var method, path string
	var body models.FlightLogEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id":5,"user_id":1,"pilot_in_command":"Jane Doe"}`))
	}))
	defer srv.Close()

	updated, err := New(srv.URL).UpdateEntry(context.Background(), 5, models.FlightLogEntry{PilotInCommand: "Jane Doe"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/logbook/5", path)
	assert.Equal(t, "Jane Doe", body.PilotInCommand)
	assert.Equal(t, uint(5), updated.ID)
	assert.Equal(t, "Jane Doe", updated.PilotInCommand)
}

func TestRouteGeoJSONKeepsRawBody(t *testing.T) {
	const feature = `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[151.1772,-33.9461],[144.8433,-37.6733]]}}`
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(feature))
	}))
	defer srv.Close()

	raw, err := New(srv.URL).RouteGeoJSON(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, "/logbook/2/entries/7/route.geojson", path)
	assert.Equal(t, feature, string(raw))
}

func TestGetAirport(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"id":3,"icao":"YSSY","iata":"SYD","name":"Sydney Kingsford Smith"}`))
	}))
	defer srv.Close()

	ap, err := New(srv.URL).GetAirport(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "/airports/3", path)
	assert.Equal(t, "YSSY", ap.ICAO)
	assert.Equal(t, "Sydney Kingsford Smith", ap.Name)
}

func TestHealth(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" || !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Health(context.Background()))

	healthy = false
	err := c.Health(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(err))

	assert.Error(t, New("http://127.0.0.1:1").Health(context.Background()))
}
