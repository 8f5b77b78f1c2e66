package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader matches the columns the schedule viewer expects.
var csvHeader = []string{
	"Employee", "Timezone", "Day", "Date", "Day of week", "Type",
	"Shift", "CET time", "Local time", "On-call", "Shift hours", "On-call hours",
}

// WriteCSV renders the records as CSV. A UTF-8 BOM is written first so the
// file opens cleanly in Excel.
func WriteCSV(w io.Writer, records []Record) error {
	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		onCall := "No"
		if r.OnCall {
			onCall = "Yes"
		}
		row := []string{
			r.Employee,
			r.Timezone,
			strconv.Itoa(r.Day),
			r.Date,
			r.DayName,
			string(r.Duty),
			r.Shift,
			r.RefTime,
			r.LocalTime,
			onCall,
			strconv.Itoa(r.ShiftHours),
			strconv.Itoa(r.OnCallHours),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename returns the default export filename for a month, e.g.
// "schedule_January_2026.csv". month is zero-based.
func Filename(month, year int) string {
	return fmt.Sprintf("schedule_%s_%d.csv", MonthName(month), year)
}
