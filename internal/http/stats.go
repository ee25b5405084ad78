package http

import (
	"github.com/gin-gonic/gin"
)

type StatsController struct {
	stats StatsProvider
}

func NewStatsController(stats StatsProvider) *StatsController {
	return &StatsController{stats: stats}
}

// Get handles GET /api/stats
func (sc *StatsController) Get(c *gin.Context) {
	stats, err := sc.stats.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "stats")
		return
	}
	respondOK(c, stats)
}
