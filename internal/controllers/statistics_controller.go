package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/stats"
)

type StatisticsController struct {
	aggregator *stats.Aggregator
}

func NewStatisticsController(a *stats.Aggregator) *StatisticsController {
	return &StatisticsController{aggregator: a}
}

// Statistics returns the dashboard summary for a user.
func (sc *StatisticsController) Statistics(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	summary, err := sc.aggregator.Statistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "statistics")
		return
	}
	c.JSON(http.StatusOK, summary)
}
