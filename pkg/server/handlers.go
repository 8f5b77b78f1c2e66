package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/pkg/core/services"
	"github.com/mkorsakov/dutyroster/pkg/db"
	"github.com/mkorsakov/dutyroster/pkg/metrics"
	"github.com/mkorsakov/dutyroster/pkg/report"
)

func (s *Server) healthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) userHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": c.GetString(userKey)})
}

// parseMonthYear reads 1-based month and year query parameters, defaulting
// to the current month.
func parseMonthYear(c *gin.Context) (int, int, error) {
	now := time.Now()
	month := int(now.Month()) - 1
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errors.New("month must be between 1 and 12")
		}
		month = m - 1
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2020 || y > 2100 {
			return 0, 0, errors.New("year must be between 2020 and 2100")
		}
		year = y
	}

	return month, year, nil
}

// scheduleHandler generates a fresh schedule for the requested month and
// returns it without persisting.
func (s *Server) scheduleHandler(c *gin.Context) {
	month, year, err := parseMonthYear(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.GenerateSchedule(s.roster, month, year, nil, s.logger)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.GenerationsTotal.WithLabelValues("http").Inc()

	c.JSON(http.StatusOK, gin.H{
		"month":   month + 1,
		"year":    year,
		"records": result.Records,
		"stats":   result.Stats,
	})
}

// saveScheduleHandler generates and persists a schedule attributed to the
// logged-in user.
func (s *Server) saveScheduleHandler(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "schedule store is not configured"})
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.GenerateSchedule(s.roster, month, year, nil, s.logger)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.GenerationsTotal.WithLabelValues("http").Inc()

	run, err := services.SaveSchedule(c.Request.Context(), s.store, s.logger, result, c.GetString(userKey))
	if err != nil {
		s.logger.Error("Failed to save schedule", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      run.ID,
		"month":   run.Month + 1,
		"year":    run.Year,
		"savedBy": run.SavedBy,
		"savedAt": run.SavedAt.Format(time.RFC3339),
	})
}

// savedScheduleHandler returns the saved schedule run for a specific month.
func (s *Server) savedScheduleHandler(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "schedule store is not configured"})
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := s.store.GetScheduleRun(c.Request.Context(), month, year)
	if errors.Is(err, db.ErrNoScheduleRun) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no saved schedule for that month"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to load schedule", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load schedule"})
		return
	}

	s.renderScheduleRun(c, run)
}

// latestScheduleHandler returns the most recently saved schedule run.
func (s *Server) latestScheduleHandler(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "schedule store is not configured"})
		return
	}

	run, err := s.store.GetLatestScheduleRun(c.Request.Context())
	if errors.Is(err, db.ErrNoScheduleRun) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no saved schedule found"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to load schedule", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load schedule"})
		return
	}

	s.renderScheduleRun(c, run)
}

func (s *Server) renderScheduleRun(c *gin.Context, run *db.ScheduleRun) {
	var stats []report.EmployeeStats
	if err := json.Unmarshal([]byte(run.StatsJSON), &stats); err != nil {
		s.logger.Error("Failed to decode saved statistics", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "corrupt saved schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      run.ID,
		"month":   run.Month + 1,
		"year":    run.Year,
		"savedBy": run.SavedBy,
		"savedAt": run.SavedAt.Format(time.RFC3339),
		"stats":   stats,
		"csv":     run.CSV,
	})
}
