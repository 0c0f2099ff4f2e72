package handler

import (
	"net/http"
	"time"

	"canebill/internal/service"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	router.GET("/api/statistics/summary", requireAdmin, h.summary)
}

// summary aggregates party counts and bill totals per direction
// @Summary      Billing summary statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) summary(c *gin.Context) {
	// Default window is the current month to date
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endDate := now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD"))
			return
		}
		startDate = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD"))
			return
		}
		// Include the whole end day
		endDate = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "end_date must not be before start_date"))
		return
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
