package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the calendar-date form used everywhere: form inputs, the
// Kit API query window and stored client records.
const Layout = "2006-01-02"

// Default engagement analysis periods (days).
const (
	BeforePeriodDays     = 60
	AfterPeriodStartDays = 45
	AfterPeriodDays      = 60
)

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func Format(t time.Time) string { return t.Format(Layout) }

// Validate checks both dates parse and that end is not before start.
func Validate(start, end string) error {
	s, err := Parse(start)
	if err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	e, err := Parse(end)
	if err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	if e.Before(s) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// DefaultRange returns (now − days, now) as calendar dates.
func DefaultRange(now time.Time, days int) (start, end string) {
	return Format(now.AddDate(0, 0, -days)), Format(now)
}

// Periods are the before/after comparison windows around a client
// engagement start date.
type Periods struct {
	BeforeStart string
	BeforeEnd   string
	AfterStart  string
	AfterEnd    string
	BeforeDays  int
	AfterDays   int
}

// EngagementPeriods derives the comparison windows: beforeDays up to
// the start date, then a window of afterDays beginning afterStartDays
// past it.
func EngagementPeriods(start time.Time, beforeDays, afterStartDays, afterDays int) Periods {
	afterStart := start.AddDate(0, 0, afterStartDays)
	return Periods{
		BeforeStart: Format(start.AddDate(0, 0, -beforeDays)),
		BeforeEnd:   Format(start),
		AfterStart:  Format(afterStart),
		AfterEnd:    Format(afterStart.AddDate(0, 0, afterDays)),
		BeforeDays:  beforeDays,
		AfterDays:   afterDays,
	}
}
