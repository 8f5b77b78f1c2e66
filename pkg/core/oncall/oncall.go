// Package oncall assigns one on-call block per region per day on a rotating
// basis and converts each block's window between the reference timezone and
// the region's local time.
package oncall

import (
	"fmt"

	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
)

// Assignment is one on-call block: an employee covering a region's window on
// a given day. Both reference-zone and local-zone labels are carried so
// downstream reporting does not need to re-derive them.
type Assignment struct {
	Employee model.Employee
	Region   string
	Day      int

	StartRef int
	EndRef   int

	StartLocal int
	EndLocal   int

	// CrossesMidnight is carried through for downstream hour accounting
	CrossesMidnight bool

	RefLabel   string
	LocalLabel string
}

// Hours returns the duration of this on-call block. Midnight-crossing
// windows are fixed at 8 hours regardless of raw start/end arithmetic.
func (a Assignment) Hours() int {
	return model.OnCallWindow{
		StartRef:        a.StartRef,
		EndRef:          a.EndRef,
		CrossesMidnight: a.CrossesMidnight,
	}.Hours()
}

// Schedule holds a full month of on-call assignments with per-employee
// lookup indexes used by the allocator and the reporter.
type Schedule struct {
	Assignments []Assignment

	byEmployeeDay map[string]map[int]Assignment
	hoursByName   map[string]int
}

// IsOnCall reports whether the named employee has an on-call block that day.
func (s *Schedule) IsOnCall(name string, day int) bool {
	_, ok := s.byEmployeeDay[name][day]
	return ok
}

// AssignmentFor returns the on-call block for the named employee on the
// given day, if any.
func (s *Schedule) AssignmentFor(name string, day int) (Assignment, bool) {
	a, ok := s.byEmployeeDay[name][day]
	return a, ok
}

// HoursFor returns the employee's total on-call hours for the month.
func (s *Schedule) HoursFor(name string) int {
	return s.hoursByName[name]
}

// CountFor returns the number of on-call blocks assigned to the employee.
func (s *Schedule) CountFor(name string) int {
	return len(s.byEmployeeDay[name])
}

// Distribute produces exactly one on-call assignment per (day, region).
//
// The region working slot g on day index d is regions[(d+g) % numRegions],
// so for a fixed slot the assigned region cycles through all regions across
// consecutive days. Within the chosen region the on-duty employee index
// advances by one every numRegions days, giving each roster member roughly
// equal on-call days over the month.
func Distribute(roster model.Roster, days []calendar.Day) *Schedule {
	schedule := &Schedule{
		byEmployeeDay: make(map[string]map[int]Assignment),
		hoursByName:   make(map[string]int),
	}

	numRegions := len(roster.Regions)
	if numRegions == 0 {
		return schedule
	}

	for dayIndex, day := range days {
		for slot := range roster.Regions {
			region := roster.Regions[(dayIndex+slot)%numRegions]
			employee := region.Employees[(dayIndex/numRegions)%len(region.Employees)]

			window := region.OnCall
			startLocal := model.LocalHour(window.StartRef, region.TimezoneOffset)
			endLocal := model.LocalHour(window.EndRef, region.TimezoneOffset)

			refLabel := fmt.Sprintf("%s-%s", model.FormatHour(window.StartRef), model.FormatHour(window.EndRef))
			if window.CrossesMidnight {
				// +1 marks that the window ends on the next day
				refLabel += "+1"
			}

			assignment := Assignment{
				Employee:        employee,
				Region:          region.Name,
				Day:             day.Day,
				StartRef:        window.StartRef,
				EndRef:          window.EndRef,
				StartLocal:      startLocal,
				EndLocal:        endLocal,
				CrossesMidnight: window.CrossesMidnight,
				RefLabel:        refLabel,
				LocalLabel:      fmt.Sprintf("%s-%s", model.FormatHour(startLocal), model.FormatHour(endLocal)),
			}

			schedule.Assignments = append(schedule.Assignments, assignment)
			if schedule.byEmployeeDay[employee.Name] == nil {
				schedule.byEmployeeDay[employee.Name] = make(map[int]Assignment)
			}
			schedule.byEmployeeDay[employee.Name][day.Day] = assignment
			schedule.hoursByName[employee.Name] += assignment.Hours()
		}
	}

	return schedule
}
