// Package report merges on-call and shift data into flat per-(employee, day)
// duty records and per-employee aggregate statistics, and renders them as a
// delimited export.
package report

import (
	"fmt"

	"github.com/mkorsakov/dutyroster/pkg/core/allocator"
	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/core/oncall"
)

// Duty classifies one employee-day. On-call takes precedence over a regular
// shift on the same day.
type Duty string

const (
	DutyOnCall  Duty = "On-call"
	DutyRegular Duty = "Regular work"
	DutyOff     Duty = "Day off"
)

// BandStatus flags an employee's monthly total against the hour band.
type BandStatus string

const (
	StatusBelowMinimum BandStatus = "below minimum"
	StatusWithinBand   BandStatus = "within band"
	StatusAboveMaximum BandStatus = "above maximum"
)

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of a zero-based month index.
func MonthName(month int) string {
	return monthNames[month]
}

// Record is one exportable employee-day row.
type Record struct {
	Employee    string
	Timezone    string
	Day         int
	Date        string
	DayName     string
	Duty        Duty
	Shift       string
	RefTime     string
	LocalTime   string
	OnCall      bool
	ShiftHours  int
	OnCallHours int
}

// EmployeeStats aggregates one employee's month.
type EmployeeStats struct {
	Name          string     `json:"name"`
	OnCallShifts  int        `json:"onCallShifts"`
	OnCallHours   int        `json:"onCallHours"`
	RegularShifts int        `json:"regularShifts"`
	ShiftCounts   [3]int     `json:"shiftCounts"`
	RegularHours  int        `json:"regularHours"`
	TotalHours    int        `json:"totalHours"`
	Status        BandStatus `json:"status"`
}

// Build produces the full record list (one row per employee per day, in
// roster order) and the per-employee statistics for the generated month.
func Build(roster model.Roster, days []calendar.Day, schedule *oncall.Schedule, allocation *allocator.Result, band model.HourBand, month, year int) ([]Record, []EmployeeStats) {
	var records []Record
	var stats []EmployeeStats

	for _, emp := range roster.AllEmployees() {
		st := EmployeeStats{
			Name:         emp.Name,
			OnCallShifts: schedule.CountFor(emp.Name),
			OnCallHours:  schedule.HoursFor(emp.Name),
		}

		for _, day := range days {
			record := Record{
				Employee: emp.Name,
				Timezone: emp.Timezone,
				Day:      day.Day,
				Date:     fmt.Sprintf("%02d.%02d.%d", day.Day, month+1, year),
				DayName:  dayNames[day.Weekday],
				Duty:     DutyOff,
				Shift:    "None",
			}

			if assignment, ok := schedule.AssignmentFor(emp.Name, day.Day); ok {
				record.Duty = DutyOnCall
				record.Shift = "On-call"
				record.RefTime = assignment.RefLabel
				record.LocalTime = assignment.LocalLabel
				record.OnCall = true
				record.OnCallHours = assignment.Hours()
			} else if shift, ok := allocation.ShiftOn(emp.Name, day.Day); ok {
				record.Duty = DutyRegular
				record.Shift = shift.Name
				record.RefTime = shift.Label
				localStart := model.LocalHour(shift.StartRef, emp.TimezoneOffset)
				localEnd := model.LocalHour(shift.EndRef, emp.TimezoneOffset)
				record.LocalTime = fmt.Sprintf("%s-%s", model.FormatHour(localStart), model.FormatHour(localEnd))
				record.ShiftHours = shift.Hours()
			}

			records = append(records, record)
		}

		// Shift counts come from the final cells so the trim pass is
		// reflected
		for _, day := range days {
			shift, ok := allocation.ShiftOn(emp.Name, day.Day)
			if !ok {
				continue
			}
			st.RegularShifts++
			if shift.ID >= 1 && shift.ID <= 3 {
				st.ShiftCounts[shift.ID-1]++
			}
		}
		st.RegularHours = st.RegularShifts * allocator.ShiftHours
		st.TotalHours = st.OnCallHours + st.RegularHours

		switch {
		case st.TotalHours < band.Min:
			st.Status = StatusBelowMinimum
		case st.TotalHours > band.Max:
			st.Status = StatusAboveMaximum
		default:
			st.Status = StatusWithinBand
		}

		stats = append(stats, st)
	}

	return records, stats
}
