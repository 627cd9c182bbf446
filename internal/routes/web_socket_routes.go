package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

func WebSocketRoutes(r *gin.RouterGroup, deps Deps) {
	sc := controllers.NewSearchSocketController(deps.Store)
	if deps.SearchDelay > 0 {
		sc.WithDelay(deps.SearchDelay)
	}
	ws := r.Group("/ws")
	{
		ws.GET("/search", sc.Serve)
	}
}
