package db

import (
	"context"
	"errors"
)

// ErrNoScheduleRun is returned when no saved schedule exists yet.
var ErrNoScheduleRun = errors.New("no saved schedule run")

// ScheduleStore defines the interface for schedule persistence.
// The postgres.DB implementation backs it in production; tests use mocks.
type ScheduleStore interface {
	InsertScheduleRun(ctx context.Context, run *ScheduleRun) error
	GetLatestScheduleRun(ctx context.Context) (*ScheduleRun, error)
	GetScheduleRun(ctx context.Context, month, year int) (*ScheduleRun, error)
}
