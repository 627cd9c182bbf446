package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/geo"
	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/middleware"
	"pilot_logbook/internal/models"
	"pilot_logbook/internal/store"
)

// LogbookController serves a pilot's flight log entries.
type LogbookController struct {
	store *store.Store
}

func NewLogbookController(s *store.Store) *LogbookController {
	return &LogbookController{store: s}
}

type entryInput struct {
	UserID         uint         `json:"user_id"`
	FlightDate     models.Date  `json:"flight_date"`
	Registration   string       `json:"aircraft_reg"`
	PilotInCommand string       `json:"pilot_in_command"`
	OtherCrew      string       `json:"other_crew"`
	Route          models.Route `json:"route_data"`
	FlightType     string       `json:"flight_type"`
	FlightRule     string       `json:"flight_rule"`
	Details        string       `json:"details"`

	models.AircraftDetails
	models.HourBuckets
}

func (in entryInput) toEntry() models.FlightLogEntry {
	e := models.FlightLogEntry{
		UserID:          in.UserID,
		FlightDate:      in.FlightDate,
		Registration:    in.Registration,
		PilotInCommand:  in.PilotInCommand,
		OtherCrew:       in.OtherCrew,
		FlightType:      in.FlightType,
		FlightRule:      in.FlightRule,
		Details:         in.Details,
		AircraftDetails: in.AircraftDetails,
		HourBuckets:     in.HourBuckets,
	}
	e.SetRoute(in.Route)
	e.Normalize()
	return e
}

func bindEntry(c *gin.Context) (models.FlightLogEntry, bool) {
	var input entryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.Log(c).WithError(err).Warn("Logbook: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return models.FlightLogEntry{}, false
	}
	entry := input.toEntry()
	if err := entry.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.FlightLogEntry{}, false
	}
	return entry, true
}

// ListEntries returns a user's entries, newest flight first.
func (lc *LogbookController) ListEntries(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	entries, err := lc.store.ListEntries(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "logbook")
		return
	}
	if entries == nil {
		entries = []models.FlightLogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// CreateEntry stores a new entry for the user named in the body.
func (lc *LogbookController) CreateEntry(c *gin.Context) {
	entry, ok := bindEntry(c)
	if !ok {
		return
	}
	if entry.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if !authorize(c, entry.UserID) {
		return
	}
	if err := lc.store.CreateEntry(c.Request.Context(), &entry); err != nil {
		respondError(c, err, "logbook entry")
		return
	}
	middleware.Log(c).WithFields(map[string]interface{}{
		"user_id":  entry.UserID,
		"entry_id": entry.ID,
	}).Info("Logbook entry created")
	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry replaces the fields of an existing entry.
func (lc *LogbookController) UpdateEntry(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	entry, ok := bindEntry(c)
	if !ok {
		return
	}

	existing, err := lc.store.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "logbook entry")
		return
	}
	if !authorize(c, existing.UserID) {
		return
	}
	if entry.UserID != 0 && entry.UserID != existing.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id cannot be changed"})
		return
	}

	if err := lc.store.UpdateEntry(c.Request.Context(), id, &entry); err != nil {
		respondError(c, err, "logbook entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// RouteGeoJSON renders an entry's route as a GeoJSON LineString feature.
func (lc *LogbookController) RouteGeoJSON(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entry, err := lc.store.GetEntry(ctx, id)
	if err == nil && entry.UserID != userID {
		err = store.ErrNotFound
	}
	if err != nil {
		respondError(c, err, "logbook entry")
		return
	}

	route := entry.RoutePlan()
	airports, err := lc.store.AirportsByIDs(ctx, route.AirportIDs())
	if err != nil {
		respondError(c, err, "airports")
		return
	}

	enriched := logbook.Enrich(entry, airports)
	feature, err := geo.RouteFeature(route, airports, map[string]interface{}{
		"entry_id":          entry.ID,
		"flight_date":       entry.FlightDate.String(),
		"aircraft_reg":      entry.Registration,
		"formatted_route":   enriched.FormattedRoute,
		"route_distance_nm": enriched.RouteDistanceNM,
	})
	if errors.Is(err, geo.ErrUnresolvedRoute) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "route has fewer than two airports with coordinates"})
		return
	}
	if err != nil {
		respondError(c, err, "route")
		return
	}

	body, err := json.Marshal(feature)
	if err != nil {
		respondError(c, err, "route")
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}
