package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonOf(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Season
	}{
		{time.January, Winter},
		{time.February, Winter},
		{time.March, Spring},
		{time.May, Spring},
		{time.June, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.November, Fall},
		{time.December, Winter},
	}
	for _, tc := range cases {
		date := time.Date(1849, tc.month, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, SeasonOf(date), tc.month.String())
	}
}

func TestParseSeason(t *testing.T) {
	s, ok := ParseSeason("Summer")
	assert.True(t, ok)
	assert.Equal(t, Summer, s)

	s, ok = ParseSeason("autumn")
	assert.True(t, ok)
	assert.Equal(t, Fall, s)

	_, ok = ParseSeason("monsoon")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	date := time.Date(1849, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 15th, 1849", Format(date))
	assert.Equal(t, "Mar 15", FormatShort(date))

	first := time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "January 1st, 1850", Format(first))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(1849, time.March, 15, 0, 0, 0, 0, time.UTC)
	b := a.AddDate(0, 0, 365)
	assert.Equal(t, 365, DaysBetween(a, b))
	assert.Equal(t, 365, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
