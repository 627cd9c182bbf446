package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/models"
	"pilot_logbook/internal/store"
)

const maxBatchIDs = 500

// ReferenceController serves airport and aircraft type reference data.
type ReferenceController struct {
	store *store.Store
}

func NewReferenceController(s *store.Store) *ReferenceController {
	return &ReferenceController{store: s}
}

func (rc *ReferenceController) SearchAirports(c *gin.Context) {
	airports, err := rc.store.SearchAirports(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err, "airports")
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (rc *ReferenceController) GetAirport(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	airport, err := rc.store.GetAirport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "airport")
		return
	}
	c.JSON(http.StatusOK, airport)
}

// BatchAirports resolves many ids at once, keyed by id. Unknown ids are omitted.
func (rc *ReferenceController) BatchAirports(c *gin.Context) {
	var body struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if len(body.IDs) > maxBatchIDs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many ids, max " + strconv.Itoa(maxBatchIDs)})
		return
	}

	airports, err := rc.store.AirportsByIDs(c.Request.Context(), body.IDs)
	if err != nil {
		respondError(c, err, "airports")
		return
	}
	out := make(map[string]models.Airport, len(airports))
	for id, a := range airports {
		out[strconv.FormatUint(uint64(id), 10)] = a
	}
	c.JSON(http.StatusOK, out)
}

func (rc *ReferenceController) SearchAircraftTypes(c *gin.Context) {
	types, err := rc.store.SearchAircraftTypes(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err, "aircraft types")
		return
	}
	c.JSON(http.StatusOK, types)
}
