package routes

import (
	"net/http"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/logger"
	"pilot_logbook/internal/middleware"
	"pilot_logbook/internal/stats"
	"pilot_logbook/internal/store"
)

// Deps are the services the HTTP API is built on. A nil Auth leaves every
// route open.
type Deps struct {
	Store       *store.Store
	Aggregator  *stats.Aggregator
	Auth        *middleware.Auth
	CORSOrigins []string
	SearchDelay time.Duration
}

func SetupRouter(deps Deps) *gin.Engine {
	if deps.Aggregator == nil {
		deps.Aggregator = stats.NewAggregator(deps.Store)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logger.Output()),
		ginlog.WithSkipPath([]string{"/api/health"}),
	))
	r.Use(middleware.CORS(deps.CORSOrigins...))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(api, deps)
	LogbookRoutes(api, deps)
	UserAircraftRoutes(api, deps)
	ReferenceRoutes(api, deps)
	StatisticsRoutes(api, deps)
	WebSocketRoutes(api, deps)

	return r
}

// protect applies the bearer token check when authentication is enabled.
func protect(g *gin.RouterGroup, deps Deps) {
	if deps.Auth != nil {
		g.Use(deps.Auth.RequireUser())
	}
}
