package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamsync/teamsync-api/internal/errors"
	"github.com/teamsync/teamsync-api/internal/services"
)

// StatsHandler serves aggregate workspace statistics.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStatistics returns current task, workspace and member counts.
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsService.Snapshot(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}
