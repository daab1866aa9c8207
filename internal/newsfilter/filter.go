// Package newsfilter suppresses analysis around scheduled high-impact events.
package newsfilter

import (
	"fmt"
	"time"

	"github.com/scmhub/calendar"
)

// DefaultWindow is the blackout half-width around each event.
const DefaultWindow = 90 * time.Minute

const minutesPerDay = 24 * 60

// Event is a recurring daily event at a UTC time of day.
type Event struct {
	Time  string `yaml:"time" json:"time"` // "HH:MM" UTC
	Label string `yaml:"label" json:"label"`

	minute int
}

// DefaultEvents are the recurring US releases watched by default.
func DefaultEvents() []Event {
	return []Event{
		{Time: "12:30", Label: "NFP"},
		{Time: "14:00", Label: "FOMC"},
		{Time: "12:15", Label: "Powell speech"},
	}
}

// Filter decides whether a cycle falls inside a blackout window.
type Filter struct {
	events []Event
	window time.Duration
	cal    *calendar.Calendar
}

// New parses the event times. A zero window uses DefaultWindow. When mic is
// set, events only apply on that exchange calendar's business days.
func New(events []Event, window time.Duration, mic string) (*Filter, error) {
	if window == 0 {
		window = DefaultWindow
	}
	if window < 0 {
		return nil, fmt.Errorf("news window must not be negative: %v", window)
	}
	f := &Filter{window: window, events: make([]Event, 0, len(events))}
	for _, e := range events {
		t, err := time.Parse("15:04", e.Time)
		if err != nil {
			return nil, fmt.Errorf("news event %q: invalid time %q: %w", e.Label, e.Time, err)
		}
		e.minute = t.Hour()*60 + t.Minute()
		f.events = append(f.events, e)
	}
	if mic != "" {
		f.cal = calendar.GetCalendar(mic)
		if f.cal == nil {
			return nil, fmt.Errorf("unknown market calendar %q", mic)
		}
	}
	return f, nil
}

// Events returns the parsed events.
func (f *Filter) Events() []Event { return f.events }

// Window returns the blackout half-width.
func (f *Filter) Window() time.Duration { return f.window }

// Check reports whether now is strictly within the window of any event,
// measured as circular distance on the UTC clock, and which event matched.
func (f *Filter) Check(now time.Time) (bool, Event) {
	now = now.UTC()
	if f.cal != nil && !f.cal.IsBusinessDay(now) {
		return false, Event{}
	}
	cur := now.Hour()*60 + now.Minute()
	win := f.window.Minutes()
	for _, e := range f.events {
		d := cur - e.minute
		if d < 0 {
			d = -d
		}
		if wrap := minutesPerDay - d; wrap < d {
			d = wrap
		}
		if float64(d) < win {
			return true, e
		}
	}
	return false, Event{}
}

// Suppressed is Check without the matched event.
func (f *Filter) Suppressed(now time.Time) bool {
	ok, _ := f.Check(now)
	return ok
}
