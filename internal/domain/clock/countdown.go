package clock

import (
	"fmt"
	"time"
)

// Countdown is the time left until the zone's next midnight, when the
// word of the day resets.
type Countdown struct {
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

// UntilMidnight returns the duration from now until the next zone midnight.
func (c *Clock) UntilMidnight() time.Duration {
	now := c.Now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)
	return midnight.Sub(now)
}

// CountdownToMidnight formats UntilMidnight as hours and minutes ("5h 12m").
func (c *Clock) CountdownToMidnight() Countdown {
	diff := c.UntilMidnight()
	if diff <= 0 {
		return Countdown{Text: "0h 0m"}
	}
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	return Countdown{
		Hours:   hours,
		Minutes: minutes,
		Text:    fmt.Sprintf("%dh %dm", hours, minutes),
	}
}

// Header formats the current zone date for display, e.g. "Tue, Feb 3".
func (c *Clock) Header() string {
	return c.Now().Format(headerLayout)
}

// HeaderFor formats a civil date for display. Invalid dates fall back to
// the current header.
func (c *Clock) HeaderFor(date string) string {
	t, err := parse(date)
	if err != nil {
		return c.Header()
	}
	return t.Add(overrideHour * time.Hour).In(c.loc).Format(headerLayout)
}
