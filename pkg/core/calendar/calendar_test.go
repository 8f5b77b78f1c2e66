package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_February2023(t *testing.T) {
	days, err := Expand(1, 2023)
	require.NoError(t, err)
	require.Len(t, days, 28)

	// Feb 1 2023 is a Wednesday
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, 3, days[0].Weekday)
	assert.False(t, days[0].Weekend)

	assert.Equal(t, 28, days[27].Day)
}

func TestExpand_LeapFebruary(t *testing.T) {
	days, err := Expand(1, 2024)
	require.NoError(t, err)
	assert.Len(t, days, 29)
}

func TestExpand_MonthLengths(t *testing.T) {
	tests := []struct {
		name  string
		month int
		year  int
		want  int
	}{
		{"January", 0, 2025, 31},
		{"April", 3, 2025, 30},
		{"December", 11, 2025, 31},
		{"February non-leap", 1, 2025, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Expand(tt.month, tt.year)
			require.NoError(t, err)
			assert.Len(t, days, tt.want)
		})
	}
}

func TestExpand_DaysAscendingAndNumbered(t *testing.T) {
	days, err := Expand(5, 2025)
	require.NoError(t, err)

	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		if i > 0 {
			assert.True(t, day.Date.After(days[i-1].Date))
		}
	}
}

func TestExpand_WeekendFlags(t *testing.T) {
	// June 2025: the 1st is a Sunday, the 7th a Saturday
	days, err := Expand(5, 2025)
	require.NoError(t, err)

	assert.Equal(t, 0, days[0].Weekday)
	assert.True(t, days[0].Weekend)
	assert.Equal(t, 6, days[6].Weekday)
	assert.True(t, days[6].Weekend)
	assert.False(t, days[1].Weekend)

	weekends := 0
	for _, day := range days {
		if day.Weekend {
			weekends++
			assert.Contains(t, []int{0, 6}, day.Weekday)
		}
	}
	assert.Equal(t, 9, weekends)
}
