package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/middleware"
	"pilot_logbook/internal/models"
	"pilot_logbook/internal/store"
)

// UserAircraftController serves a pilot's personal aircraft registry.
type UserAircraftController struct {
	store *store.Store
}

func NewUserAircraftController(s *store.Store) *UserAircraftController {
	return &UserAircraftController{store: s}
}

type aircraftInput struct {
	UserID       uint   `json:"user_id"`
	Registration string `json:"aircraft_reg"`
	models.AircraftDetails
}

func validateDetails(d models.AircraftDetails) error {
	if d.Category != "" && !models.ValidCategory(d.Category) {
		return errors.New("invalid aircraft_category")
	}
	if d.Class != "" && !models.ValidClass(d.Class) {
		return errors.New("invalid aircraft_class")
	}
	return nil
}

// List returns every registration the user has flown.
func (uc *UserAircraftController) List(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	fleet, err := uc.store.ListAircraft(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "aircraft")
		return
	}
	if fleet == nil {
		fleet = []models.UserAircraft{}
	}
	c.JSON(http.StatusOK, fleet)
}

// Lookup reports whether the user already has a registration on file.
func (uc *UserAircraftController) Lookup(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	reg := strings.TrimSpace(c.Param("reg"))
	if reg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration is required"})
		return
	}

	aircraft, err := uc.store.FindAircraft(c.Request.Context(), userID, reg)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	if err != nil {
		respondError(c, err, "aircraft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "aircraft": aircraft})
}

// Create adds a registration to the user's registry.
func (uc *UserAircraftController) Create(c *gin.Context) {
	var input aircraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	input.AircraftDetails = input.AircraftDetails.Normalize()
	if input.UserID == 0 || strings.TrimSpace(input.Registration) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and aircraft_reg are required"})
		return
	}
	if err := validateDetails(input.AircraftDetails); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !authorize(c, input.UserID) {
		return
	}

	aircraft := models.UserAircraft{
		UserID:          input.UserID,
		Registration:    input.Registration,
		AircraftDetails: input.AircraftDetails,
	}
	if err := uc.store.CreateAircraft(c.Request.Context(), &aircraft); err != nil {
		respondError(c, err, "aircraft")
		return
	}
	middleware.Log(c).WithField("aircraft_reg", aircraft.Registration).Info("Aircraft added to registry")
	c.JSON(http.StatusCreated, aircraft)
}

// Update replaces the details of a registration the user already has.
func (uc *UserAircraftController) Update(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	if !authorize(c, userID) {
		return
	}

	var input aircraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	details := input.AircraftDetails.Normalize()
	if err := validateDetails(details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aircraft, err := uc.store.UpdateAircraft(c.Request.Context(), userID, c.Param("reg"), details)
	if err != nil {
		respondError(c, err, "aircraft")
		return
	}
	c.JSON(http.StatusOK, aircraft)
}
