package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mkorsakov/dutyroster/pkg/db"
)

// InsertScheduleRun persists one generated schedule.
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO schedule_run (id, month, year, saved_by, saved_at, csv, stats_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.Month, run.Year, run.SavedBy, run.SavedAt, run.CSV, run.StatsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}
	return nil
}

// GetLatestScheduleRun returns the most recently saved schedule.
func (d *DB) GetLatestScheduleRun(ctx context.Context) (*db.ScheduleRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, month, year, saved_by, saved_at, csv, stats_json
		FROM schedule_run
		ORDER BY saved_at DESC
		LIMIT 1
	`)
	return scanScheduleRun(row)
}

// GetScheduleRun returns the latest saved schedule for the given month.
func (d *DB) GetScheduleRun(ctx context.Context, month, year int) (*db.ScheduleRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, month, year, saved_by, saved_at, csv, stats_json
		FROM schedule_run
		WHERE month = $1 AND year = $2
		ORDER BY saved_at DESC
		LIMIT 1
	`, month, year)
	return scanScheduleRun(row)
}

func scanScheduleRun(row pgx.Row) (*db.ScheduleRun, error) {
	var run db.ScheduleRun
	err := row.Scan(&run.ID, &run.Month, &run.Year, &run.SavedBy, &run.SavedAt, &run.CSV, &run.StatsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNoScheduleRun
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule run: %w", err)
	}
	return &run, nil
}
