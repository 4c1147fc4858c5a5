// Package daterange holds the inclusive, optionally open-ended date range used
// by assignments, timesheets, reports and the audit trail.
package daterange

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Range is an inclusive start/end pair. A nil bound is unbounded.
type Range struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func New(start, end *time.Time) Range {
	return Range{Start: start, End: end}
}

// Between returns a closed range over two concrete dates.
func Between(start, end time.Time) Range {
	return Range{Start: &start, End: &end}
}

// Day is the single-day range for t.
func Day(t time.Time) Range {
	d := truncateDay(t)
	return Between(d, d)
}

// ForMonth spans the first through the last day of the month containing t.
func ForMonth(t time.Time) Range {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return Between(first, last)
}

func (r Range) IsOpen() bool {
	return r.Start == nil || r.End == nil
}

// Contains reports whether t falls inside the range, bounds included. Only
// the calendar day of t is compared.
func (r Range) Contains(t time.Time) bool {
	d := truncateDay(t)
	if r.Start != nil && d.Before(truncateDay(*r.Start)) {
		return false
	}
	if r.End != nil && d.After(truncateDay(*r.End)) {
		return false
	}
	return true
}

// Overlaps reports whether the two ranges share at least one day.
func (r Range) Overlaps(o Range) bool {
	if r.Start != nil && o.End != nil && truncateDay(*o.End).Before(truncateDay(*r.Start)) {
		return false
	}
	if r.End != nil && o.Start != nil && truncateDay(*o.Start).After(truncateDay(*r.End)) {
		return false
	}
	return true
}

// Validate rejects ranges whose end lies before their start.
func (r Range) Validate() error {
	if r.Start != nil && r.End != nil && truncateDay(*r.End).Before(truncateDay(*r.Start)) {
		return fmt.Errorf("range end %s is before start %s", r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	return nil
}

// Days lists every day of a closed range in order. Open ranges yield nil.
func (r Range) Days() []time.Time {
	if r.IsOpen() {
		return nil
	}
	var out []time.Time
	for d := truncateDay(*r.Start); !d.After(truncateDay(*r.End)); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Parse builds a range from two optional "2006-01-02" strings; blank means
// unbounded.
func Parse(from, to string) (Range, error) {
	var r Range
	if s := strings.TrimSpace(from); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start date %q: %w", s, err)
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(to); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end date %q: %w", s, err)
		}
		r.End = &t
	}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// ParseMonth parses "2006-01" into the range of that month.
func ParseMonth(s string) (Range, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Range{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return ForMonth(t), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
