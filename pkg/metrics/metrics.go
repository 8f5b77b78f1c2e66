// Package metrics provides Prometheus observability for the roster
// generator: generation counters, engine timings and hour-band health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application's own prometheus registry, served on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// GenerationsTotal counts schedule generation runs by trigger.
var GenerationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "roster",
	Name:      "generations_total",
	Help:      "Total schedule generation runs, labelled by trigger (cli, http, cron)",
}, []string{"trigger"})

// GenerationDurationSeconds tracks time to generate one month's schedule.
var GenerationDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "roster",
	Name:      "generation_duration_seconds",
	Help:      "Time taken to generate a full monthly schedule",
	Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
})

// EmployeesBelowMinimum tracks employees left under the hour-band minimum by
// the latest run. Non-zero values indicate an infeasible roster.
var EmployeesBelowMinimum = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "employees_below_minimum",
	Help:      "Employees whose monthly total fell below the hour-band minimum in the latest run",
})

// EmployeesAboveMaximum tracks employees over the hour-band maximum.
var EmployeesAboveMaximum = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "employees_above_maximum",
	Help:      "Employees whose monthly total exceeded the hour-band maximum in the latest run",
})

// ShiftsAssigned tracks regular shifts assigned in the latest run.
var ShiftsAssigned = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "roster",
	Name:      "shifts_assigned",
	Help:      "Regular shifts assigned (after trimming) in the latest run",
})

// SchedulesSavedTotal counts schedules persisted to the store.
var SchedulesSavedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "roster",
	Name:      "schedules_saved_total",
	Help:      "Total schedules saved to the store",
})
