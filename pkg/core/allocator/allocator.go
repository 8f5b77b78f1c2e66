// Package allocator assigns regular 8-hour shifts across the roster so that
// each employee's monthly total (on-call + regular) lands inside the
// configured hour band.
//
// The engine is a greedy, randomized, multi-pass heuristic: every (day,
// shift) candidate is scored against every employee, the highest score wins,
// and the whole pool is re-shuffled and re-scanned across several passes so
// the minimum-hours hard rule converges. It is best-effort - an infeasible
// roster leaves some employees outside the band, which the reporter surfaces
// as warnings rather than failures.
package allocator

import (
	"math"
	"math/rand"

	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/core/oncall"
)

// DefaultPasses is the number of shuffled scans over the candidate pool.
// Repeating the scan is a convergence aid for the minimum-hours rule, not a
// fixed-point guarantee.
const DefaultPasses = 3

// ShiftHours is the length of every regular shift.
const ShiftHours = 8

// Config carries everything one allocation run needs. The random source is
// injected so tests can force determinism; production uses a time-seeded
// generator.
type Config struct {
	Roster model.Roster
	Days   []calendar.Day
	OnCall *oncall.Schedule
	Band   model.HourBand

	// Passes defaults to DefaultPasses when zero
	Passes int

	Rand *rand.Rand
}

// DayCell is the per-(employee, day) slot: either empty or holding one
// assigned shift. The explicit Assigned tag makes the below-minimum
// overwrite rule's precondition testable, unlike a nullable pointer.
type DayCell struct {
	Assigned bool
	Shift    model.ShiftDefinition
}

// EmployeeState tracks one employee's running totals during allocation.
type EmployeeState struct {
	Employee model.Employee

	// OnCallHours is fixed for the whole run, precomputed from the
	// on-call schedule with the midnight-crossing 8-hour rule
	OnCallHours int

	// TargetShifts is ceil(max(0, min-OnCallHours) / 8): the number of
	// regular shifts needed to reach the band minimum. The formula is
	// uniform across regions - no region gets a different threshold.
	TargetShifts int

	// Shifts counts days that currently hold a shift. Overwrites of an
	// already-assigned day do not change it.
	Shifts int
}

// TotalHours returns on-call hours plus committed regular hours.
func (s *EmployeeState) TotalHours() int {
	return s.OnCallHours + s.Shifts*ShiftHours
}

// Result is the outcome of one allocation run.
type Result struct {
	// Cells maps employee name -> day number -> cell
	Cells map[string]map[int]DayCell

	// States maps employee name -> final running totals
	States map[string]*EmployeeState
}

// ShiftOn returns the shift assigned to the employee on the given day.
func (r *Result) ShiftOn(name string, day int) (model.ShiftDefinition, bool) {
	cell := r.Cells[name][day]
	return cell.Shift, cell.Assigned
}

// candidate is one (day, shift) slot in the allocation pool.
type candidate struct {
	day   calendar.Day
	shift model.ShiftDefinition
}

// Allocate runs the multi-pass allocation followed by the trim pass.
func Allocate(cfg Config) *Result {
	passes := cfg.Passes
	if passes == 0 {
		passes = DefaultPasses
	}

	employees := cfg.Roster.AllEmployees()
	result := &Result{
		Cells:  make(map[string]map[int]DayCell, len(employees)),
		States: make(map[string]*EmployeeState, len(employees)),
	}
	for _, emp := range employees {
		result.Cells[emp.Name] = make(map[int]DayCell, len(cfg.Days))
		result.States[emp.Name] = newEmployeeState(emp, cfg.OnCall, cfg.Band)
	}

	// Candidate pool: every (day, shift) pair of the month
	definitions := model.ShiftDefinitions()
	pool := make([]candidate, 0, len(cfg.Days)*len(definitions))
	for _, day := range cfg.Days {
		for _, shift := range definitions {
			pool = append(pool, candidate{day: day, shift: shift})
		}
	}

	for pass := 0; pass < passes; pass++ {
		cfg.Rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})

		for _, cand := range pool {
			assignBest(cfg, employees, result, cand)
		}
	}

	trim(cfg, employees, result)

	return result
}

// newEmployeeState precomputes the fixed per-employee inputs of the scoring
// heuristic.
func newEmployeeState(emp model.Employee, schedule *oncall.Schedule, band model.HourBand) *EmployeeState {
	onCallHours := schedule.HoursFor(emp.Name)
	minRegularHours := band.Min - onCallHours
	if minRegularHours < 0 {
		minRegularHours = 0
	}
	return &EmployeeState{
		Employee:     emp,
		OnCallHours:  onCallHours,
		TargetShifts: int(math.Ceil(float64(minRegularHours) / ShiftHours)),
	}
}

// assignBest scores every employee for the candidate and assigns the shift
// to the strictly best one, honouring the below-minimum overwrite rule.
func assignBest(cfg Config, employees []model.Employee, result *Result, cand candidate) {
	var best *EmployeeState
	bestScore := -1.0

	for _, emp := range employees {
		state := result.States[emp.Name]

		// Never pick a candidate that would push an employee past the
		// band maximum
		if state.TotalHours()+ShiftHours > cfg.Band.Max {
			continue
		}

		weight := 0
		if region, err := cfg.Roster.RegionByName(emp.Region); err == nil {
			weight = region.AllocationWeight
		}

		score := Score(state, cfg.Band, cand.day, cfg.OnCall.IsOnCall(emp.Name, cand.day.Day), weight)
		score += cfg.Rand.Float64() * 2 // small jitter for tie-breaking variety

		if score > bestScore {
			bestScore = score
			best = state
		}
	}

	if best == nil {
		return
	}

	cells := result.Cells[best.Employee.Name]
	existing := cells[cand.day.Day]
	belowMinimum := best.TotalHours() < cfg.Band.Min

	// Below-minimum employees take the shift unconditionally, even over a
	// previously assigned one; everyone else only fills empty days. The
	// shift counter moves only when an empty day becomes assigned.
	if belowMinimum || !existing.Assigned {
		if !existing.Assigned {
			best.Shifts++
		}
		cells[cand.day.Day] = DayCell{Assigned: true, Shift: cand.shift}
	}
}
