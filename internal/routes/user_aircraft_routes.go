package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

func UserAircraftRoutes(r *gin.RouterGroup, deps Deps) {
	uc := controllers.NewUserAircraftController(deps.Store)
	aircraft := r.Group("/user-aircraft")
	protect(aircraft, deps)
	{
		aircraft.GET("/:userId", uc.List)
		aircraft.GET("/:userId/registration/:reg", uc.Lookup)
		aircraft.POST("", uc.Create)
		aircraft.PUT("/:userId/:reg", uc.Update)
	}
}
