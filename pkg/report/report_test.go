package report

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorsakov/dutyroster/pkg/core/allocator"
	"github.com/mkorsakov/dutyroster/pkg/core/calendar"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/core/oncall"
)

func testRoster() model.Roster {
	return model.Roster{Regions: []model.Region{
		{
			Name:           "Brazil",
			TimezoneOffset: -3,
			OnCall:         model.OnCallWindow{StartRef: 17, EndRef: 1, CrossesMidnight: true},
			Employees: []model.Employee{
				{Name: "Brazil 1", Region: "Brazil", Timezone: "America/Sao_Paulo", TimezoneOffset: -3},
				{Name: "Brazil 2", Region: "Brazil", Timezone: "America/Sao_Paulo", TimezoneOffset: -3},
			},
		},
		{
			Name:           "Europe",
			TimezoneOffset: 1,
			OnCall:         model.OnCallWindow{StartRef: 8, EndRef: 18},
			Employees: []model.Employee{
				{Name: "Europe 1", Region: "Europe", Timezone: "Europe/Berlin", TimezoneOffset: 1},
				{Name: "Europe 2", Region: "Europe", Timezone: "Europe/Berlin", TimezoneOffset: 1},
			},
		},
	}}
}

func buildMonth(t *testing.T) (model.Roster, []calendar.Day, *oncall.Schedule, *allocator.Result, []Record, []EmployeeStats) {
	t.Helper()

	roster := testRoster()
	days, err := calendar.Expand(0, 2025) // January 2025
	require.NoError(t, err)

	schedule := oncall.Distribute(roster, days)
	allocation := allocator.Allocate(allocator.Config{
		Roster: roster,
		Days:   days,
		OnCall: schedule,
		Band:   model.DefaultHourBand,
		Rand:   rand.New(rand.NewSource(11)),
	})

	records, stats := Build(roster, days, schedule, allocation, model.DefaultHourBand, 0, 2025)
	return roster, days, schedule, allocation, records, stats
}

func TestBuild_OneRecordPerEmployeePerDay(t *testing.T) {
	roster, days, _, _, records, _ := buildMonth(t)
	assert.Len(t, records, len(roster.AllEmployees())*len(days))

	// Roster order, days ascending within each employee
	assert.Equal(t, "Brazil 1", records[0].Employee)
	assert.Equal(t, 1, records[0].Day)
	assert.Equal(t, "01.01.2025", records[0].Date)
	assert.Equal(t, "Wed", records[0].DayName)
	assert.Equal(t, 2, records[1].Day)
}

func TestBuild_OnCallTakesPrecedence(t *testing.T) {
	_, _, schedule, allocation, records, _ := buildMonth(t)

	for _, r := range records {
		if schedule.IsOnCall(r.Employee, r.Day) {
			assert.Equal(t, DutyOnCall, r.Duty)
			assert.Equal(t, "On-call", r.Shift)
			assert.True(t, r.OnCall)
			assert.Zero(t, r.ShiftHours)
			assert.NotZero(t, r.OnCallHours)
		} else if _, ok := allocation.ShiftOn(r.Employee, r.Day); ok {
			assert.Equal(t, DutyRegular, r.Duty)
			assert.Equal(t, 8, r.ShiftHours)
			assert.Zero(t, r.OnCallHours)
		} else {
			assert.Equal(t, DutyOff, r.Duty)
			assert.Equal(t, "None", r.Shift)
		}
	}
}

func TestBuild_RegularShiftLocalTime(t *testing.T) {
	_, _, schedule, allocation, records, _ := buildMonth(t)

	for _, r := range records {
		if r.Employee != "Brazil 1" || r.Duty != DutyRegular {
			continue
		}
		shift, ok := allocation.ShiftOn(r.Employee, r.Day)
		require.True(t, ok)
		require.False(t, schedule.IsOnCall(r.Employee, r.Day))

		// UTC-3 is four hours behind the reference zone
		switch shift.ID {
		case 1:
			assert.Equal(t, "20:00-04:00", r.LocalTime)
		case 2:
			assert.Equal(t, "04:00-12:00", r.LocalTime)
		case 3:
			assert.Equal(t, "12:00-20:00", r.LocalTime)
		}
	}
}

func TestBuild_StatsTotals(t *testing.T) {
	_, _, schedule, allocation, _, stats := buildMonth(t)
	require.Len(t, stats, 4)

	for _, st := range stats {
		assert.Equal(t, schedule.HoursFor(st.Name), st.OnCallHours)
		assert.Equal(t, schedule.CountFor(st.Name), st.OnCallShifts)
		assert.Equal(t, st.RegularShifts*8, st.RegularHours)
		assert.Equal(t, st.OnCallHours+st.RegularHours, st.TotalHours)
		assert.Equal(t, st.RegularShifts, st.ShiftCounts[0]+st.ShiftCounts[1]+st.ShiftCounts[2])
		assert.Equal(t, allocation.States[st.Name].Shifts, st.RegularShifts)
	}
}

func TestBuild_BandStatus(t *testing.T) {
	tests := []struct {
		name   string
		shifts int
		want   BandStatus
	}{
		{"below minimum", 20, StatusBelowMinimum}, // 160h
		{"at minimum", 21, StatusWithinBand},      // 168h
		{"near maximum", 23, StatusWithinBand},    // 184h
		{"above maximum", 24, StatusAboveMaximum}, // 192h
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := model.Roster{Regions: []model.Region{{
				Name:      "Europe",
				Employees: []model.Employee{{Name: "One", Region: "Europe"}},
			}}}
			schedule := oncall.Distribute(model.Roster{}, nil)
			allocation := &allocator.Result{
				Cells: map[string]map[int]allocator.DayCell{"One": {}},
				States: map[string]*allocator.EmployeeState{
					"One": {Employee: model.Employee{Name: "One"}, Shifts: tt.shifts},
				},
			}

			defs := model.ShiftDefinitions()
			var days []calendar.Day
			for d := 1; d <= 31; d++ {
				if d <= tt.shifts {
					allocation.Cells["One"][d] = allocator.DayCell{Assigned: true, Shift: defs[0]}
				}
				days = append(days, calendar.Day{Day: d})
			}

			_, stats := Build(roster, days, schedule, allocation, model.DefaultHourBand, 0, 2025)
			require.Len(t, stats, 1)
			assert.Equal(t, tt.shifts*8, stats[0].TotalHours)
			assert.Equal(t, tt.want, stats[0].Status)
		})
	}
}

func TestWriteCSV_HeaderAndBOM(t *testing.T) {
	records := []Record{{
		Employee:    "Europe 1",
		Timezone:    "Europe/Berlin",
		Day:         1,
		Date:        "01.01.2025",
		DayName:     "Wed",
		Duty:        DutyOnCall,
		Shift:       "On-call",
		RefTime:     "08:00-18:00",
		OnCall:      true,
		OnCallHours: 10,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"Employee", "Timezone", "Day", "Date", "Day of week", "Type",
		"Shift", "CET time", "Local time", "On-call", "Shift hours", "On-call hours",
	}, rows[0])
	assert.Equal(t, "Europe 1", rows[1][0])
	assert.Equal(t, "On-call", rows[1][5])
	assert.Equal(t, "Yes", rows[1][9])
	assert.Equal(t, "10", rows[1][11])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "schedule_January_2026.csv", Filename(0, 2026))
	assert.Equal(t, "schedule_December_2025.csv", Filename(11, 2025))
}
