package clock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/dailyword/internal/domain/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func fixed(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestClock_Today(t *testing.T) {
	Convey("Given a Madrid clock", t, func() {
		Convey("When UTC is still on the previous day", func() {
			c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-03-01T23:30:00Z")))

			Convey("Then today is the Madrid civil date", func() {
				So(c.Degraded(), ShouldBeFalse)
				So(c.Today(), ShouldEqual, "2025-03-02")
			})
		})

		Convey("When it is summer time", func() {
			c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-07-10T22:15:00Z")))

			Convey("Then the two hour offset applies", func() {
				So(c.Today(), ShouldEqual, "2025-07-11")
			})
		})

		Convey("When the zone is empty", func() {
			c := clock.New("")

			Convey("Then it uses the default zone", func() {
				So(c.Zone(), ShouldEqual, clock.DefaultZone)
			})
		})
	})

	Convey("Given an unknown zone", t, func() {
		c := clock.New("Nowhere/Atlantis", clock.WithNow(fixed("2025-03-01T23:30:00Z")))

		Convey("Then the clock degrades to UTC", func() {
			So(c.Degraded(), ShouldBeTrue)
			So(c.Location(), ShouldEqual, time.UTC)
			So(c.Today(), ShouldEqual, "2025-03-01")
		})
	})
}

func TestClock_Resolve(t *testing.T) {
	Convey("Given a clock and a set of overrides", t, func() {
		c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-06-15T10:00:00Z")))

		Convey("A well formed override is used as is", func() {
			So(c.Resolve("2025-03-01"), ShouldEqual, "2025-03-01")
		})

		Convey("A malformed override is ignored", func() {
			So(c.Resolve("03-2025-01"), ShouldEqual, "2025-06-15")
			So(c.Resolve("2025-3-1"), ShouldEqual, "2025-06-15")
			So(c.Resolve(" 2025-03-01"), ShouldEqual, "2025-06-15")
			So(c.Resolve("2025-03-01T00:00"), ShouldEqual, "2025-06-15")
		})

		Convey("An empty override falls back to today", func() {
			So(c.Resolve(""), ShouldEqual, "2025-06-15")
		})

		Convey("A well shaped but impossible date is ignored", func() {
			So(c.Resolve("2025-13-45"), ShouldEqual, "2025-06-15")
			So(c.Resolve("2025-02-29"), ShouldEqual, "2025-06-15")
		})
	})
}

func TestDayOfYear(t *testing.T) {
	Convey("Given civil dates at year boundaries", t, func() {
		cases := []struct {
			date string
			want int
		}{
			{"2025-01-01", 1},
			{"2025-12-31", 365},
			{"2025-03-01", 60},
			{"2024-01-01", 1},
			{"2024-03-01", 61},
			{"2024-12-31", 366},
		}

		for _, tc := range cases {
			got, err := clock.DayOfYear(tc.date)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}
	})

	Convey("Given an invalid date", t, func() {
		_, err := clock.DayOfYear("31-12-2025")

		Convey("Then it reports ErrInvalidDate", func() {
			So(errors.Is(err, clock.ErrInvalidDate), ShouldBeTrue)
		})
	})
}

func TestAddDays(t *testing.T) {
	Convey("Given a civil date", t, func() {
		Convey("Subtracting the cooldown crosses month and year boundaries", func() {
			got, err := clock.AddDays("2025-01-15", -30)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "2024-12-16")
		})

		Convey("Leap days are counted", func() {
			got, err := clock.AddDays("2024-03-01", -1)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "2024-02-29")
		})

		Convey("Invalid input is rejected", func() {
			_, err := clock.AddDays("nope", 1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClock_Countdown(t *testing.T) {
	Convey("Given a Madrid clock at 22:30 local time", t, func() {
		c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-01-15T21:30:00Z")))

		Convey("Then the reset is an hour and a half away", func() {
			cd := c.CountdownToMidnight()
			So(cd.Hours, ShouldEqual, 1)
			So(cd.Minutes, ShouldEqual, 30)
			So(cd.Text, ShouldEqual, "1h 30m")
			So(c.UntilMidnight(), ShouldEqual, 90*time.Minute)
		})
	})

	Convey("Given a clock exactly at local midnight", t, func() {
		c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-01-14T23:00:00Z")))

		Convey("Then a full day remains", func() {
			cd := c.CountdownToMidnight()
			So(cd.Text, ShouldEqual, "24h 0m")
		})
	})
}

func TestClock_Header(t *testing.T) {
	Convey("Given a Madrid clock", t, func() {
		c := clock.New("Europe/Madrid", clock.WithNow(fixed("2025-02-03T23:30:00Z")))

		Convey("Then the header uses the local date", func() {
			So(c.Header(), ShouldEqual, "Tue, Feb 4")
		})

		Convey("And an explicit date is formatted on its own day", func() {
			So(c.HeaderFor("2025-02-03"), ShouldEqual, "Mon, Feb 3")
		})

		Convey("And an invalid date falls back to the current header", func() {
			So(c.HeaderFor("bad"), ShouldEqual, "Tue, Feb 4")
		})
	})
}
