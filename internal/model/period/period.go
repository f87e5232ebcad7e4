package period

import (
	"time"

	"github.com/jinzhu/now"
)

const (
	Today = "today"
	Week  = "week"
	Month = "month"
	Year  = "year"
)

var Tags = []string{Today, Week, Month, Year}

// Range is an inclusive [From, To] window. The zero Range matches nothing.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Resolve computes the calendar window containing ref for the given tag.
// Weeks run Monday through Sunday, so a Sunday reference still belongs to
// the week that started the prior Monday. Unknown tags resolve to the zero
// Range; validating the tag is the caller's concern.
func Resolve(ref time.Time, tag string) Range {
	conf := &now.Config{WeekStartDay: time.Monday, TimeLocation: ref.Location()}
	n := conf.With(ref)

	switch tag {
	case Today:
		return Range{From: n.BeginningOfDay(), To: n.EndOfDay()}
	case Week:
		return Range{From: n.BeginningOfWeek(), To: n.EndOfWeek()}
	case Month:
		return Range{From: n.BeginningOfMonth(), To: n.EndOfMonth()}
	case Year:
		return Range{From: n.BeginningOfYear(), To: n.EndOfYear()}
	}
	return Range{}
}

func Known(tag string) bool {
	for _, t := range Tags {
		if t == tag {
			return true
		}
	}
	return false
}
