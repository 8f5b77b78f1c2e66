package model

import "fmt"

// ReferenceZoneOffset is the UTC offset of the reference timezone (CET, UTC+1).
// All shift and on-call windows are defined in reference-zone hours and
// converted to each employee's local time for display.
const ReferenceZoneOffset = 1

// Employee is a single roster member. Employees are built once from
// configuration at startup and never mutated afterwards.
type Employee struct {
	// Name uniquely identifies the employee within the roster
	Name string

	// Region is the name of the region the employee belongs to
	Region string

	// Timezone is the IANA timezone label, used for display only
	Timezone string

	// TimezoneOffset is the signed offset in whole hours from UTC
	TimezoneOffset int

	// WorkStart and WorkEnd are the daily local working window (e.g. 9-18)
	WorkStart int
	WorkEnd   int
}

// OnCallWindow is a per-region coverage interval in reference-zone hours.
// Adjacent regions' windows overlap by one hour at handover boundaries.
type OnCallWindow struct {
	// StartRef and EndRef are reference-zone hours (0-23, EndRef 24 allowed)
	StartRef int
	EndRef   int

	// CrossesMidnight marks a window whose end falls on the next day
	// (e.g. 17:00-01:00). Such windows need special hour accounting.
	CrossesMidnight bool
}

// Hours returns the duration of the window in hours.
// A midnight-crossing window is always 8 hours (17:00-24:00 plus 00:00-01:00);
// naive end-start subtraction would yield a negative value for it.
func (w OnCallWindow) Hours() int {
	if w.CrossesMidnight {
		return 8
	}
	return w.EndRef - w.StartRef
}

// Region is a named group of employees sharing a timezone offset and an
// on-call window.
type Region struct {
	Name string

	// TimezoneOffset is the group-level offset in whole hours from UTC
	TimezoneOffset int

	// OnCall is the region's coverage window in reference-zone hours
	OnCall OnCallWindow

	// AllocationWeight is the region's bonus in the shift scoring heuristic
	AllocationWeight int

	Employees []Employee
}

// Roster is the full immutable roster configuration passed into each engine
// call. There is no process-wide singleton; every run receives its own value.
type Roster struct {
	Regions []Region
}

// AllEmployees returns every employee across all regions in region order.
// The order is stable, which matters for tie-breaking in the allocator.
func (r Roster) AllEmployees() []Employee {
	var all []Employee
	for _, region := range r.Regions {
		all = append(all, region.Employees...)
	}
	return all
}

// RegionByName returns the region with the given name.
func (r Roster) RegionByName(name string) (Region, error) {
	for _, region := range r.Regions {
		if region.Name == name {
			return region, nil
		}
	}
	return Region{}, fmt.Errorf("unknown region %q", name)
}

// HourBand is the permitted monthly total-hours range. The allocation
// heuristic optimizes toward Target but only best-effort: totals outside
// [Min, Max] are surfaced as warnings, never enforced as a hard invariant.
type HourBand struct {
	Min    int
	Target int
	Max    int
}

// DefaultHourBand is the 165-185 band with a 180-hour target.
var DefaultHourBand = HourBand{Min: 165, Target: 180, Max: 185}

// ShiftDefinition is one of the three fixed 8-hour blocks covering a full
// day in reference-zone time.
type ShiftDefinition struct {
	ID       int
	Name     string
	StartRef int
	EndRef   int
	Label    string
}

// Hours returns the shift duration; all regular shifts are 8 hours.
func (s ShiftDefinition) Hours() int {
	return s.EndRef - s.StartRef
}

// ShiftDefinitions returns the three regular shifts in ID order:
// night (00-08), day (08-16) and evening (16-24).
func ShiftDefinitions() []ShiftDefinition {
	return []ShiftDefinition{
		{ID: 1, Name: "Shift 1", StartRef: 0, EndRef: 8, Label: "00:00-08:00"},
		{ID: 2, Name: "Shift 2", StartRef: 8, EndRef: 16, Label: "08:00-16:00"},
		{ID: 3, Name: "Shift 3", StartRef: 16, EndRef: 24, Label: "16:00-00:00"},
	}
}

// LocalHour converts a reference-zone hour to an employee's local hour,
// wrapping across the 0-23 boundary.
func LocalHour(refHour, employeeOffset int) int {
	return (refHour - ReferenceZoneOffset + employeeOffset + 24) % 24
}

// FormatHour renders an hour as a zero-padded "HH:00" label. Hour 24 is
// rendered as midnight.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour%24)
}
