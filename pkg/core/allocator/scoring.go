package allocator

import (
	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
)

// Scoring weights. They encode a fixed priority order: reaching the band
// minimum dominates everything, then avoiding zero-duty days, then closing
// in on the target, then the region weighting. The absolute values are a
// fixed policy, not derived from a formal objective.
const (
	// below-minimum tier
	weightMinimumDeficit = 1000
	weightMinimumShifts  = 50
	bonusMinimumWeekday  = 10

	// below-target tier
	weightTargetDeficit = 30
	weightTargetShifts  = 20
	bonusTargetWeekday  = 5

	// at/above-target tier
	weightMaximumHeadroom = 5
	bonusMaximumWeekday   = 2

	// dominant bonus for employees without an on-call block that day,
	// to minimize days with zero duty
	bonusNotOnCall = 200
)

// Score computes the deterministic part of an employee's score for one
// (day, shift) candidate; the caller adds the random jitter. Higher wins.
func Score(state *EmployeeState, band model.HourBand, day calendar.Day, onCallToday bool, regionWeight int) float64 {
	total := state.TotalHours()
	shiftsNeeded := state.TargetShifts - state.Shifts

	var score int
	switch {
	case total < band.Min:
		score = (band.Min-total)*weightMinimumDeficit + shiftsNeeded*weightMinimumShifts
		if !day.Weekend {
			score += bonusMinimumWeekday
		}
	case total < band.Target:
		score = (band.Target-total)*weightTargetDeficit + shiftsNeeded*weightTargetShifts
		if !day.Weekend {
			score += bonusTargetWeekday
		}
	default:
		score = (band.Max - total) * weightMaximumHeadroom
		if !day.Weekend {
			score += bonusMaximumWeekday
		}
	}

	if !onCallToday {
		score += bonusNotOnCall
	}

	score += regionWeight

	return float64(score)
}
