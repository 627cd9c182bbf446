package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

func AuthRoutes(r *gin.RouterGroup, deps Deps) {
	if deps.Auth == nil {
		return
	}
	ac := controllers.NewAuthController(deps.Store, deps.Auth)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ac.Signup)
		auth.POST("/login", ac.Login)
	}
}
