package duty

import (
	"testing"
	"time"
)

// 2026-08-24 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)
}

func TestShiftForDefaultsToRest(t *testing.T) {
	c := NewCalendar()
	if got := c.ShiftFor(time.Monday); got != ShiftRest {
		t.Fatalf("ShiftFor(Monday)=%q on empty calendar, want rest", got)
	}
	c.SetDay(time.Monday, ShiftMorning)
	if got := c.ShiftFor(time.Monday); got != ShiftMorning {
		t.Fatalf("ShiftFor(Monday)=%q, want morning", got)
	}
	// Overwrite is allowed.
	c.SetDay(time.Monday, ShiftNight)
	if got := c.ShiftFor(time.Monday); got != ShiftNight {
		t.Fatalf("ShiftFor(Monday)=%q after overwrite, want night", got)
	}
}

func TestOnDutyAt(t *testing.T) {
	c := NewCalendar()
	c.SetDay(time.Monday, ShiftMorning)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before shift", monday(7, 59), false},
		{"shift start", monday(8, 0), true},
		{"mid shift", monday(9, 30), true},
		{"recess start", monday(10, 0), false},
		{"inside recess", monday(10, 10), false},
		{"recess end", monday(10, 15), true},
		{"last minute", monday(11, 59), true},
		{"shift end is exclusive", monday(12, 0), false},
		{"rest day", monday(9, 0).AddDate(0, 0, 1), false}, // Tuesday unset
	}
	for _, tc := range cases {
		if got := c.OnDutyAt(tc.at); got != tc.want {
			t.Errorf("%s: OnDutyAt(%v)=%v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestSessionMidnightWrap(t *testing.T) {
	// Synthetic overnight session: interval containment must wrap.
	s := Session{
		Shift: ShiftNight,
		Start: Clock(22, 0), End: Clock(2, 0),
		RecessStart: Clock(23, 30), RecessEnd: Clock(0, 30),
	}

	cases := []struct {
		t      ClockTime
		inside bool
		recess bool
	}{
		{Clock(21, 59), false, false},
		{Clock(22, 0), true, false},
		{Clock(23, 45), true, true},
		{Clock(0, 0), true, true},
		{Clock(0, 30), true, false},
		{Clock(1, 59), true, false},
		{Clock(2, 0), false, false},
	}
	for _, tc := range cases {
		if got := s.Contains(tc.t); got != tc.inside {
			t.Errorf("Contains(%v)=%v, want %v", tc.t, got, tc.inside)
		}
		if got := s.InRecess(tc.t); got != tc.recess {
			t.Errorf("InRecess(%v)=%v, want %v", tc.t, got, tc.recess)
		}
	}
}

func TestWindow(t *testing.T) {
	if _, _, ok := ShiftRest.Window(); ok {
		t.Fatal("rest shift should have no window")
	}
	start, end, ok := ShiftAfternoon.Window()
	if !ok || start != Clock(13, 0) || end != Clock(17, 0) {
		t.Fatalf("afternoon window = %v-%v ok=%v", start, end, ok)
	}
}
