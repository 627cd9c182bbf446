package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

// ReferenceRoutes serve shared airport and aircraft type data and need no user.
func ReferenceRoutes(r *gin.RouterGroup, deps Deps) {
	rc := controllers.NewReferenceController(deps.Store)

	airports := r.Group("/airports")
	{
		airports.GET("/search", rc.SearchAirports)
		airports.POST("/batch", rc.BatchAirports)
		airports.GET("/:id", rc.GetAirport)
	}

	r.GET("/aircraft-types/search", rc.SearchAircraftTypes)
}
