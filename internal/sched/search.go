package sched

import (
	"strings"
	"time"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/pkg/seq"
)

// Searches copy the collection, sort the copy on the query key, locate
// one match by binary search, then widen left and right while adjacent
// elements still compare equal, returning the contiguous run. The sort
// is the container's stable bubble sort, so ties keep their original
// relative order.

// SearchByDoctor returns every appointment for the doctor.
func (s *Scheduler) SearchByDoctor(doctorID string) []*appointment.Appointment {
	working := seq.Of(s.appts.Values()...)
	working.Sort(func(x, y *appointment.Appointment) bool {
		return x.DoctorID < y.DoctorID
	})
	return expandRun(working, func(a *appointment.Appointment) int {
		return strings.Compare(a.DoctorID, doctorID)
	})
}

// SearchByTimeSlot returns every appointment scheduled at exactly the
// given instant.
func (s *Scheduler) SearchByTimeSlot(at time.Time) []*appointment.Appointment {
	working := seq.Of(s.appts.Values()...)
	working.Sort(func(x, y *appointment.Appointment) bool {
		return x.ScheduledAt.Before(y.ScheduledAt)
	})
	return expandRun(working, func(a *appointment.Appointment) int {
		return a.ScheduledAt.Compare(at)
	})
}

// expandRun binary-searches a sorted collection with cmp (negative
// before the run, zero inside it, positive after) and returns the full
// run of zero-comparing elements.
func expandRun(sorted *seq.Array[*appointment.Appointment], cmp func(*appointment.Appointment) int) []*appointment.Appointment {
	lo, hi := 0, sorted.Len()-1
	found := -1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := cmp(sorted.Get(mid)); {
		case c == 0:
			found = mid
			lo = hi + 1
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	if found < 0 {
		return nil
	}

	left, right := found, found
	for left > 0 && cmp(sorted.Get(left-1)) == 0 {
		left--
	}
	for right+1 < sorted.Len() && cmp(sorted.Get(right+1)) == 0 {
		right++
	}

	out := make([]*appointment.Appointment, 0, right-left+1)
	for i := left; i <= right; i++ {
		out = append(out, sorted.Get(i))
	}
	return out
}
