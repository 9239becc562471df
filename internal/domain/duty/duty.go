// Package duty models a doctor's weekly duty roster: one shift per
// weekday, each shift with fixed working hours and a recess window.
package duty

import (
	"fmt"
	"time"
)

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
	ShiftRest      Shift = "rest"
)

func (s Shift) IsValid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftRest:
		return true
	}
	return false
}

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockOf truncates a timestamp to its time-of-day component.
func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute())
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Session carries a shift's working window and recess window. The
// recess interval always lies inside the working interval.
type Session struct {
	Shift       Shift
	Start       ClockTime
	End         ClockTime
	RecessStart ClockTime
	RecessEnd   ClockTime
}

var sessions = map[Shift]Session{
	ShiftMorning: {
		Shift: ShiftMorning,
		Start: Clock(8, 0), End: Clock(12, 0),
		RecessStart: Clock(10, 0), RecessEnd: Clock(10, 15),
	},
	ShiftAfternoon: {
		Shift: ShiftAfternoon,
		Start: Clock(13, 0), End: Clock(17, 0),
		RecessStart: Clock(15, 0), RecessEnd: Clock(15, 15),
	},
	ShiftNight: {
		Shift: ShiftNight,
		Start: Clock(18, 0), End: Clock(22, 0),
		RecessStart: Clock(20, 0), RecessEnd: Clock(20, 15),
	},
}

// SessionOf returns the fixed session for a working shift. The second
// return is false for Rest and unknown shifts, which carry no times.
func SessionOf(s Shift) (Session, bool) {
	sess, ok := sessions[s]
	return sess, ok
}

// Window returns the bookable hour window of a working shift.
func (s Shift) Window() (start, end ClockTime, ok bool) {
	sess, ok := sessions[s]
	if !ok {
		return 0, 0, false
	}
	return sess.Start, sess.End, true
}

// contains applies half-open interval containment with midnight-wrap
// handling: when start > end the interval wraps past midnight and
// containment becomes "at or after start OR before end".
func contains(start, end, t ClockTime) bool {
	if start > end {
		return t >= start || t < end
	}
	return t >= start && t < end
}

// Contains reports whether t falls inside the session's working
// window, recess included.
func (s Session) Contains(t ClockTime) bool {
	return contains(s.Start, s.End, t)
}

// InRecess reports whether t falls inside the recess window, using the
// same wrap rule as the working window.
func (s Session) InRecess(t ClockTime) bool {
	return contains(s.RecessStart, s.RecessEnd, t)
}

// Calendar maps each weekday to a shift. Days never assigned default
// to Rest; a calendar is created once per doctor and mutated only
// through per-day overwrite.
type Calendar struct {
	days map[time.Weekday]Shift
}

func NewCalendar() *Calendar {
	return &Calendar{days: make(map[time.Weekday]Shift, 7)}
}

// SetDay overwrites the shift assigned to a weekday.
func (c *Calendar) SetDay(day time.Weekday, s Shift) {
	c.days[day] = s
}

// ShiftFor returns the shift for a weekday, Rest when unset.
func (c *Calendar) ShiftFor(day time.Weekday) Shift {
	if s, ok := c.days[day]; ok {
		return s
	}
	return ShiftRest
}

// OnDutyAt reports whether the timestamp falls inside that day's
// working window and outside its recess.
func (c *Calendar) OnDutyAt(t time.Time) bool {
	sess, ok := SessionOf(c.ShiftFor(t.Weekday()))
	if !ok {
		return false
	}
	ct := ClockOf(t)
	return sess.Contains(ct) && !sess.InRecess(ct)
}
