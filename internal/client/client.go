// Package client talks to the logbook HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pilot_logbook/internal/models"
	"pilot_logbook/internal/stats"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with each request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func (c *Client) ListEntries(ctx context.Context, userID uint) ([]models.FlightLogEntry, error) {
	var entries []models.FlightLogEntry
	err := c.do(ctx, http.MethodGet, "/logbook/"+id(userID), nil, &entries)
	return entries, err
}

func (c *Client) CreateEntry(ctx context.Context, entry models.FlightLogEntry) (models.FlightLogEntry, error) {
	var created models.FlightLogEntry
	err := c.do(ctx, http.MethodPost, "/logbook", entry, &created)
	return created, err
}

func (c *Client) UpdateEntry(ctx context.Context, entryID uint, entry models.FlightLogEntry) (models.FlightLogEntry, error) {
	var updated models.FlightLogEntry
	err := c.do(ctx, http.MethodPut, "/logbook/"+id(entryID), entry, &updated)
	return updated, err
}

// RouteGeoJSON returns the raw GeoJSON feature of an entry's route.
func (c *Client) RouteGeoJSON(ctx context.Context, userID, entryID uint) ([]byte, error) {
	var raw []byte
	err := c.do(ctx, http.MethodGet, "/logbook/"+id(userID)+"/entries/"+id(entryID)+"/route.geojson", nil, &raw)
	return raw, err
}

func (c *Client) ListAircraft(ctx context.Context, userID uint) ([]models.UserAircraft, error) {
	var fleet []models.UserAircraft
	err := c.do(ctx, http.MethodGet, "/user-aircraft/"+id(userID), nil, &fleet)
	return fleet, err
}

// LookupAircraft reports whether the user has registration on file.
func (c *Client) LookupAircraft(ctx context.Context, userID uint, registration string) (models.UserAircraft, bool, error) {
	var resp struct {
		Found    bool                `json:"found"`
		Aircraft models.UserAircraft `json:"aircraft"`
	}
	path := "/user-aircraft/" + id(userID) + "/registration/" + url.PathEscape(registration)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return models.UserAircraft{}, false, err
	}
	return resp.Aircraft, resp.Found, nil
}

func (c *Client) CreateAircraft(ctx context.Context, aircraft models.UserAircraft) (models.UserAircraft, error) {
	var created models.UserAircraft
	err := c.do(ctx, http.MethodPost, "/user-aircraft", aircraft, &created)
	return created, err
}

func (c *Client) UpdateAircraft(ctx context.Context, userID uint, registration string, details models.AircraftDetails) (models.UserAircraft, error) {
	var updated models.UserAircraft
	path := "/user-aircraft/" + id(userID) + "/" + url.PathEscape(registration)
	err := c.do(ctx, http.MethodPut, path, details, &updated)
	return updated, err
}

func (c *Client) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	var airports []models.Airport
	err := c.do(ctx, http.MethodGet, "/airports/search?"+url.Values{"query": {query}}.Encode(), nil, &airports)
	return airports, err
}

func (c *Client) GetAirport(ctx context.Context, airportID uint) (models.Airport, error) {
	var airport models.Airport
	err := c.do(ctx, http.MethodGet, "/airports/"+id(airportID), nil, &airport)
	return airport, err
}

// AirportsByIDs resolves ids in a single batch request.
func (c *Client) AirportsByIDs(ctx context.Context, ids []uint) (map[uint]models.Airport, error) {
	out := map[uint]models.Airport{}
	if len(ids) == 0 {
		return out, nil
	}
	err := c.do(ctx, http.MethodPost, "/airports/batch", map[string][]uint{"ids": ids}, &out)
	return out, err
}

func (c *Client) SearchAircraftTypes(ctx context.Context, query string) ([]models.AircraftType, error) {
	var types []models.AircraftType
	err := c.do(ctx, http.MethodGet, "/aircraft-types/search?"+url.Values{"query": {query}}.Encode(), nil, &types)
	return types, err
}

func (c *Client) Statistics(ctx context.Context, userID uint) (stats.Summary, error) {
	var summary stats.Summary
	err := c.do(ctx, http.MethodGet, "/statistics/"+id(userID), nil, &summary)
	return summary, err
}

// Session is the answer to a successful login or signup.
type Session struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a token and starts sending it.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &s)
	if err == nil {
		c.token = s.Token
	}
	return s, err
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/signup",
		map[string]string{"name": name, "email": email, "password": password}, &s)
	if err == nil {
		c.token = s.Token
	}
	return s, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
