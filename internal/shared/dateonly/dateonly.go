// Package dateonly is the single place where calendar-day arithmetic lives.
// Every date that crosses a module boundary is normalized here first, so
// comparisons never see a time-of-day component.
package dateonly

import "time"

const Layout = "2006-01-02"

// Of truncates t to midnight UTC.
func Of(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD string into a normalized day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Of(t), nil
}

func Format(t time.Time) string {
	return Of(t).Format(Layout)
}

// Same reports whether a and b fall on the same calendar day.
func Same(a, b time.Time) bool {
	return Of(a).Equal(Of(b))
}

// DaysBetween returns the whole-day distance from a to b. Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(Of(b).Sub(Of(a)).Hours() / 24)
}

// MonthBounds returns the first and last calendar day of (year, month).
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
