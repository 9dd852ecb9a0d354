package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

type StatsHandler struct {
	svc   *services.ProgressService
	clock Clock
}

func NewStatsHandler(svc *services.ProgressService, clock Clock) *StatsHandler {
	return &StatsHandler{svc: svc, clock: clock}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
}

// GetWeeklyStats defaults to the seven days ending today.
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	endDate, err := h.clock.query(c, "end_date")
	if err != nil {
		respondError(c, err)
		return
	}

	startDate := domain.DayOf(endDate).AddDays(-(domain.DefaultProgressWindow - 1)).In(h.clock.location())
	if c.Query("start_date") != "" {
		startDate, err = h.clock.query(c, "start_date")
		if err != nil {
			respondError(c, err)
			return
		}
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), domain.StatsInput{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
