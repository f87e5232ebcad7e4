package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func Test_OnWeek_ShouldSpanMondayThroughSunday(t *testing.T) {
	// Wednesday 2024-03-13 10:00
	r := Resolve(date(2024, time.March, 13, 10, 0), Week)

	assert.Equal(t, date(2024, time.March, 11, 0, 0), r.From)
	assert.True(t, r.Contains(date(2024, time.March, 11, 0, 0)))
	assert.True(t, r.Contains(date(2024, time.March, 17, 23, 59)))
	assert.False(t, r.Contains(date(2024, time.March, 10, 23, 59)))
	assert.False(t, r.Contains(date(2024, time.March, 18, 0, 0)))
}

func Test_OnWeek_SundayBelongsToWeekOfPriorMonday(t *testing.T) {
	// Sunday 2024-03-17 10:00
	r := Resolve(date(2024, time.March, 17, 10, 0), Week)

	assert.Equal(t, date(2024, time.March, 11, 0, 0), r.From)
	assert.True(t, r.Contains(date(2024, time.March, 17, 10, 0)))
	assert.False(t, r.Contains(date(2024, time.March, 18, 0, 0)))
}

func Test_OnToday_ShouldMatchSameCalendarDayOnly(t *testing.T) {
	r := Resolve(date(2024, time.March, 13, 10, 0), Today)

	assert.True(t, r.Contains(date(2024, time.March, 13, 0, 0)))
	assert.True(t, r.Contains(date(2024, time.March, 13, 23, 59)))
	assert.False(t, r.Contains(date(2024, time.March, 12, 23, 59)))
	assert.False(t, r.Contains(date(2024, time.March, 14, 0, 0)))
}

func Test_OnMonthAndYear_ShouldMatchCalendarBounds(t *testing.T) {
	m := Resolve(date(2024, time.March, 13, 10, 0), Month)
	assert.True(t, m.Contains(date(2024, time.March, 1, 0, 0)))
	assert.True(t, m.Contains(date(2024, time.March, 31, 23, 59)))
	assert.False(t, m.Contains(date(2024, time.February, 29, 12, 0)))
	assert.False(t, m.Contains(date(2024, time.April, 1, 0, 0)))

	y := Resolve(date(2024, time.March, 13, 10, 0), Year)
	assert.True(t, y.Contains(date(2024, time.January, 1, 0, 0)))
	assert.True(t, y.Contains(date(2024, time.December, 31, 23, 59)))
	assert.False(t, y.Contains(date(2023, time.December, 31, 23, 59)))
}

func Test_OnUnknownTag_ShouldMatchNothing(t *testing.T) {
	ref := date(2024, time.March, 13, 10, 0)
	r := Resolve(ref, "decade")

	assert.False(t, r.Contains(ref))
	assert.False(t, Known("decade"))
	assert.True(t, Known(Week))
}
