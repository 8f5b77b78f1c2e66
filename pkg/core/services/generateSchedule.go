package services

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/pkg/core/allocator"
	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/core/oncall"
	"github.com/mkorsakov/dutyroster/pkg/metrics"
	"github.com/mkorsakov/dutyroster/pkg/report"
)

// ScheduleResult is one generated month: calendar, raw engine outputs and the
// flattened records and statistics the boundary collaborators consume.
type ScheduleResult struct {
	Month int
	Year  int

	Days       []calendar.Day
	OnCall     *oncall.Schedule
	Allocation *allocator.Result

	Records []report.Record
	Stats   []report.EmployeeStats
}

// GenerateSchedule runs the full pipeline for one month: calendar expansion,
// on-call rotation, shift allocation, reporting. month is zero-based; rng may
// be nil, in which case a time-seeded source is used.
//
// Out-of-band employee totals are not errors - they come back flagged in the
// statistics and are logged as warnings.
func GenerateSchedule(roster model.Roster, month, year int, rng *rand.Rand, logger *zap.Logger) (*ScheduleResult, error) {
	if month < 0 || month > 11 {
		return nil, fmt.Errorf("month must be between 0 and 11, got %d", month)
	}
	if year < 2020 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2020 and 2100, got %d", year)
	}
	if len(roster.Regions) == 0 {
		return nil, fmt.Errorf("roster has no regions")
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	start := time.Now()
	logger.Info("Generating schedule",
		zap.Int("month", month+1),
		zap.Int("year", year),
		zap.Int("regions", len(roster.Regions)),
		zap.Int("employees", len(roster.AllEmployees())))

	days, err := calendar.Expand(month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to expand calendar: %w", err)
	}
	logger.Debug("Calendar expanded", zap.Int("days", len(days)))

	onCallSchedule := oncall.Distribute(roster, days)
	logger.Debug("On-call rotation distributed", zap.Int("assignments", len(onCallSchedule.Assignments)))

	allocation := allocator.Allocate(allocator.Config{
		Roster: roster,
		Days:   days,
		OnCall: onCallSchedule,
		Band:   model.DefaultHourBand,
		Rand:   rng,
	})

	records, stats := report.Build(roster, days, onCallSchedule, allocation, model.DefaultHourBand, month, year)

	belowMin, aboveMax, assigned := 0, 0, 0
	for _, st := range stats {
		switch st.Status {
		case report.StatusBelowMinimum:
			belowMin++
			logger.Warn("Employee below hour-band minimum",
				zap.String("employee", st.Name),
				zap.Int("total_hours", st.TotalHours))
		case report.StatusAboveMaximum:
			aboveMax++
			logger.Warn("Employee above hour-band maximum",
				zap.String("employee", st.Name),
				zap.Int("total_hours", st.TotalHours))
		}
		assigned += st.RegularShifts
	}

	metrics.GenerationDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.EmployeesBelowMinimum.Set(float64(belowMin))
	metrics.EmployeesAboveMaximum.Set(float64(aboveMax))
	metrics.ShiftsAssigned.Set(float64(assigned))

	logger.Info("Schedule generated",
		zap.Int("records", len(records)),
		zap.Int("shifts_assigned", assigned),
		zap.Int("below_minimum", belowMin),
		zap.Int("above_maximum", aboveMax),
		zap.Duration("elapsed", time.Since(start)))

	return &ScheduleResult{
		Month:      month,
		Year:       year,
		Days:       days,
		OnCall:     onCallSchedule,
		Allocation: allocation,
		Records:    records,
		Stats:      stats,
	}, nil
}
