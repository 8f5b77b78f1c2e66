package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnCallWindow_Hours(t *testing.T) {
	assert.Equal(t, 9, OnCallWindow{StartRef: 0, EndRef: 9}.Hours())
	assert.Equal(t, 10, OnCallWindow{StartRef: 8, EndRef: 18}.Hours())

	// 17:00 through 01:00 next day is fixed at 8 hours
	crossing := OnCallWindow{StartRef: 17, EndRef: 1, CrossesMidnight: true}
	assert.Equal(t, 8, crossing.Hours())
}

func TestLocalHour(t *testing.T) {
	// Reference zone is UTC+1, so an offset of +1 is the identity
	assert.Equal(t, 8, LocalHour(8, 1))

	// Brazil, UTC-3: 17:00 reference is 13:00 local
	assert.Equal(t, 13, LocalHour(17, -3))

	// Australia, UTC+10: 00:00 reference is 09:00 local
	assert.Equal(t, 9, LocalHour(0, 10))

	// Wraps around midnight in both directions
	assert.Equal(t, 22, LocalHour(2, -3))
	assert.Equal(t, 3, LocalHour(18, 10))
}

func TestLocalHour_InvertibleModulo24(t *testing.T) {
	for _, offset := range []int{-3, 1, 10} {
		for hour := 0; hour < 24; hour++ {
			local := LocalHour(hour, offset)
			back := (local + ReferenceZoneOffset - offset + 24) % 24
			assert.Equal(t, hour, back)
		}
	}
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "00:00", FormatHour(0))
	assert.Equal(t, "09:00", FormatHour(9))
	assert.Equal(t, "00:00", FormatHour(24))
}

func TestShiftDefinitions(t *testing.T) {
	shifts := ShiftDefinitions()
	assert.Len(t, shifts, 3)
	for _, shift := range shifts {
		assert.Equal(t, 8, shift.Hours())
	}
	assert.Equal(t, "16:00-00:00", shifts[2].Label)
}

func TestRoster_AllEmployees(t *testing.T) {
	roster := Roster{Regions: []Region{
		{Name: "A", Employees: []Employee{{Name: "A 1"}, {Name: "A 2"}}},
		{Name: "B", Employees: []Employee{{Name: "B 1"}}},
	}}

	all := roster.AllEmployees()
	assert.Len(t, all, 3)
	assert.Equal(t, "A 1", all[0].Name)
	assert.Equal(t, "B 1", all[2].Name)
}

func TestRoster_RegionByName(t *testing.T) {
	roster := Roster{Regions: []Region{{Name: "Europe"}}}

	region, err := roster.RegionByName("Europe")
	assert.NoError(t, err)
	assert.Equal(t, "Europe", region.Name)

	_, err = roster.RegionByName("Atlantis")
	assert.Error(t, err)
}
