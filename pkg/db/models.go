package db

import "time"

// ScheduleRun is a persisted generated schedule. The CSV payload and the
// per-employee statistics are stored as rendered by pkg/report, so the web
// viewer can serve them without regenerating.
type ScheduleRun struct {
	ID      string
	Month   int
	Year    int
	SavedBy string
	SavedAt time.Time

	// CSV is the full delimited export, BOM included
	CSV string

	// StatsJSON is the JSON-encoded []report.EmployeeStats
	StatsJSON string
}
