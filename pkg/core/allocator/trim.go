package allocator

import (
	"sort"

	"github.com/mkorsakov/dutyroster/pkg/core/model"
)

// trimCandidate is a shift-day considered for removal during the trim pass.
type trimCandidate struct {
	day     int
	onCall  bool
	weekend bool
}

// trim removes exactly one regular shift from every employee whose total
// would stay at or above the band minimum, pulling overshoot back toward the
// target. Removal prefers days without on-call duty, then non-weekend days;
// it never drops an employee below the minimum.
func trim(cfg Config, employees []model.Employee, result *Result) {
	for _, emp := range employees {
		state := result.States[emp.Name]
		if state.Shifts == 0 || state.TotalHours()-ShiftHours < cfg.Band.Min {
			continue
		}

		cells := result.Cells[emp.Name]
		var candidates []trimCandidate
		for _, day := range cfg.Days {
			if !cells[day.Day].Assigned {
				continue
			}
			candidates = append(candidates, trimCandidate{
				day:     day.Day,
				onCall:  cfg.OnCall.IsOnCall(emp.Name, day.Day),
				weekend: day.Weekend,
			})
		}
		if len(candidates) == 0 {
			continue
		}

		// Non-on-call before on-call, then non-weekend before weekend
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].onCall != candidates[j].onCall {
				return !candidates[i].onCall
			}
			if candidates[i].weekend != candidates[j].weekend {
				return !candidates[i].weekend
			}
			return false
		})

		cells[candidates[0].day] = DayCell{}
		state.Shifts--
	}
}
