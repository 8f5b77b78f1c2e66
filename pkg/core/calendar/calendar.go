// Package calendar expands a (month, year) pair into the ordered sequence of
// days the scheduling engines operate on.
package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Day is a single calendar day of the target month. Immutable once generated.
type Day struct {
	// Date is the day at midnight UTC
	Date time.Time

	// Day is the 1-based day number within the month
	Day int

	// Weekday uses locale-independent numbering: 0=Sunday .. 6=Saturday
	Weekday int

	// Weekend is true for Saturday and Sunday
	Weekend bool
}

// Expand returns one Day per day of the given month in ascending order.
// month is zero-based (0=January .. 11=December); the caller is responsible
// for range validation.
func Expand(month, year int) ([]Day, error) {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month normalizes to the last day of this one
	last := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Until:   last,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build day recurrence: %w", err)
	}

	dates := rule.All()
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		weekday := int(date.Weekday())
		days = append(days, Day{
			Date:    date,
			Day:     date.Day(),
			Weekday: weekday,
			Weekend: weekday == 0 || weekday == 6,
		})
	}

	return days, nil
}
