// Package clock resolves civil dates in a fixed named timezone.
//
// All dates handled by the service are civil date strings (YYYY-MM-DD)
// anchored to one zone, independent of the host or caller timezone.
package clock

import (
	"fmt"
	"regexp"
	"time"
)

// Civil date and header layouts.
const (
	DateLayout   = "2006-01-02"
	headerLayout = "Mon, Jan 2"
	DefaultZone  = "Europe/Madrid"
)

// overrideHour anchors override dates at midday UTC so the zone conversion
// never crosses a date boundary.
const overrideHour = 12

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock produces "today" in its configured zone.
type Clock struct {
	loc      *time.Location
	zone     string
	degraded bool
	now      func() time.Time
}

// New builds a Clock for the named zone. When the zone cannot be loaded the
// clock degrades to UTC instead of failing; Degraded reports that state.
func New(zone string, opts ...Option) *Clock {
	c := &Clock{
		zone: zone,
		now:  time.Now,
	}
	if zone == "" {
		c.zone = DefaultZone
	}

	loc, err := time.LoadLocation(c.zone)
	if err != nil {
		loc = time.UTC
		c.degraded = true
	}
	c.loc = loc

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Zone returns the configured zone name.
func (c *Clock) Zone() string { return c.zone }

// Location returns the effective location (UTC when degraded).
func (c *Clock) Location() *time.Location { return c.loc }

// Degraded reports whether the zone failed to load and UTC is in use.
func (c *Clock) Degraded() bool { return c.degraded }

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Today returns the current civil date.
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// Resolve returns override when it is a valid civil date, otherwise Today.
// Malformed overrides are ignored rather than reported.
func (c *Clock) Resolve(override string) string {
	if ValidDate(override) {
		return override
	}
	return c.Today()
}

// ValidDate reports whether s has the exact 4-2-2 digit shape and names a
// real calendar day.
func ValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DayOfYear returns the 1-based ordinal day of date within its year.
func DayOfYear(date string) (int, error) {
	t, err := parse(date)
	if err != nil {
		return 0, err
	}
	return t.YearDay(), nil
}

// AddDays shifts a civil date by n days (n may be negative).
func AddDays(date string, n int) (string, error) {
	t, err := parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

func parse(date string) (time.Time, error) {
	if !datePattern.MatchString(date) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, date, err)
	}
	return t, nil
}
