package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/pkg/db"
	"github.com/mkorsakov/dutyroster/pkg/metrics"
	"github.com/mkorsakov/dutyroster/pkg/report"
)

// SaveSchedule renders the result to CSV and persists it as a schedule run
// attributed to savedBy.
func SaveSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, result *ScheduleResult, savedBy string) (*db.ScheduleRun, error) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, result.Records); err != nil {
		return nil, fmt.Errorf("failed to render schedule CSV: %w", err)
	}

	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to encode statistics: %w", err)
	}

	run := &db.ScheduleRun{
		ID:        uuid.New().String(),
		Month:     result.Month,
		Year:      result.Year,
		SavedBy:   savedBy,
		SavedAt:   time.Now().UTC(),
		CSV:       buf.String(),
		StatsJSON: string(statsJSON),
	}

	if err := store.InsertScheduleRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save schedule run: %w", err)
	}

	metrics.SchedulesSavedTotal.Inc()
	logger.Info("Schedule run saved",
		zap.String("run_id", run.ID),
		zap.Int("month", run.Month+1),
		zap.Int("year", run.Year),
		zap.String("saved_by", savedBy))

	return run, nil
}

// LatestSchedule loads the most recently saved schedule run.
func LatestSchedule(ctx context.Context, store db.ScheduleStore) (*db.ScheduleRun, error) {
	run, err := store.GetLatestScheduleRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest schedule run: %w", err)
	}
	return run, nil
}
