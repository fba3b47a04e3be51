package dateonly_test

import (
	"testing"
	"time"

	"go-absensi/internal/shared/dateonly"

	"github.com/stretchr/testify/assert"
)

func TestOf_StripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2024, 5, 11, 23, 45, 12, 999, loc)

	got := dateonly.Of(in)

	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 11, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}

func TestSame_IgnoresClock(t *testing.T) {
	a := time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, dateonly.Same(a, b))
	assert.False(t, dateonly.Same(a, c))
}

func TestDaysBetween(t *testing.T) {
	d0 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, dateonly.DaysBetween(d0, d0))
	assert.Equal(t, 2, dateonly.DaysBetween(d0, d0.AddDate(0, 0, 2)))
	assert.Equal(t, -1, dateonly.DaysBetween(d0, d0.AddDate(0, 0, -1)))
	// Clock drift inside the same day must not shift the distance
	assert.Equal(t, 1, dateonly.DaysBetween(d0.Add(23*time.Hour), d0.AddDate(0, 0, 1)))
}

func TestParse(t *testing.T) {
	got, err := dateonly.Parse("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = dateonly.Parse("29-02-2024")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	first, last := dateonly.MonthBounds(2024, time.February)
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 29, last.Day())
}
