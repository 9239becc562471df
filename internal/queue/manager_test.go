package queue

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/pkg/seq"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)
}

func appt(id int64, status appointment.Status, scheduled time.Time) *appointment.Appointment {
	return &appointment.Appointment{
		ID:          id,
		PatientID:   "p",
		DoctorID:    "d",
		ScheduledAt: scheduled,
		Type:        appointment.TypeOnline,
		Status:      status,
	}
}

func checkedIn(id int64, scheduled, arrived time.Time) *appointment.Appointment {
	a := appt(id, appointment.StatusCheckedIn, scheduled)
	a.CheckedInAt = &arrived
	return a
}

func TestRebuildMembershipMatchesStatuses(t *testing.T) {
	appts := seq.Of(
		appt(1, appointment.StatusBooked, at(8, 0)),
		checkedIn(2, at(9, 0), at(8, 50)),
		appt(3, appointment.StatusTreatment, at(8, 0)),
		checkedIn(4, at(8, 0), at(8, 5)),
		appt(5, appointment.StatusCompleted, at(9, 0)),
		appt(6, appointment.StatusTreatment, at(7, 0)),
	)
	m := NewManager(appts, zap.NewNop())
	m.Rebuild()

	gotIn := m.CheckedInIDs()
	if len(gotIn) != 2 || gotIn[0] != 4 || gotIn[1] != 2 {
		t.Fatalf("checked-in queue = %v, want [4 2]", gotIn)
	}
	gotTr := m.TreatmentIDs()
	if len(gotTr) != 2 || gotTr[0] != 6 || gotTr[1] != 3 {
		t.Fatalf("treatment queue = %v, want [6 3]", gotTr)
	}
}

func TestCheckedInOrdering(t *testing.T) {
	sched := at(9, 0)
	noArrival := appt(3, appointment.StatusCheckedIn, sched) // nil check-in sorts last
	appts := seq.Of(
		noArrival,
		checkedIn(2, sched, at(8, 45)),
		checkedIn(1, sched, at(8, 30)),
		checkedIn(5, sched, at(8, 30)), // same arrival: id breaks the tie
		checkedIn(4, at(8, 0), at(8, 55)),
	)
	m := NewManager(appts, zap.NewNop())
	m.Rebuild()

	got := m.CheckedInIDs()
	want := []int64{4, 1, 5, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("queue = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("queue = %v, want %v", got, want)
		}
	}
}

func TestCallNext(t *testing.T) {
	appts := seq.Of(
		checkedIn(1, at(8, 0), at(7, 55)),
		checkedIn(2, at(9, 0), at(8, 10)),
	)
	m := NewManager(appts, zap.NewNop())
	m.Rebuild()

	a, err := m.CallNext()
	if err != nil {
		t.Fatalf("CallNext: %v", err)
	}
	if a.ID != 1 || a.Status != appointment.StatusConsulting {
		t.Fatalf("called id=%d status=%q", a.ID, a.Status)
	}
	if called, ok := m.Called(); !ok || called.ID != 1 {
		t.Fatal("called slot not set")
	}
	if m.CheckedInSize() != 1 {
		t.Fatalf("checked-in size=%d after call, want 1", m.CheckedInSize())
	}

	// A second immediate call fails until the slot is released.
	if _, err := m.CallNext(); !errors.Is(err, ErrCallActive) {
		t.Fatalf("second CallNext err=%v, want ErrCallActive", err)
	}

	m.Release(1)
	if _, ok := m.Called(); ok {
		t.Fatal("called slot should be clear after Release")
	}
	b, err := m.CallNext()
	if err != nil {
		t.Fatalf("CallNext after release: %v", err)
	}
	if b.ID != 2 {
		t.Fatalf("called id=%d, want 2", b.ID)
	}
}

func TestCallNextEmptyQueue(t *testing.T) {
	m := NewManager(seq.New[*appointment.Appointment](), zap.NewNop())
	m.Rebuild()
	if _, err := m.CallNext(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("CallNext err=%v, want ErrQueueEmpty", err)
	}
	if _, ok := m.Called(); ok {
		t.Fatal("failed call must leave the called slot unset")
	}
}

func TestRestoreTreatmentPurgesStaleEntries(t *testing.T) {
	appts := seq.Of(
		appt(1, appointment.StatusTreatment, at(8, 0)),
		appt(2, appointment.StatusPendingPayment, at(9, 0)), // edited back out of treatment
		appt(3, appointment.StatusTreatment, at(10, 0)),
	)
	m := NewManager(appts, zap.NewNop())

	// Snapshot order is trusted; stale and unknown ids are dropped.
	m.RestoreTreatment([]int64{3, 2, 1, 99, 3})

	got := m.TreatmentIDs()
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("treatment queue = %v, want [3 1]", got)
	}
}

func TestForget(t *testing.T) {
	appts := seq.Of(
		checkedIn(1, at(8, 0), at(7, 55)),
		appt(2, appointment.StatusTreatment, at(8, 0)),
	)
	m := NewManager(appts, zap.NewNop())
	m.Rebuild()

	if _, err := m.CallNext(); err != nil {
		t.Fatalf("CallNext: %v", err)
	}
	m.Forget(1)
	if _, ok := m.Called(); ok {
		t.Fatal("Forget should clear the called slot")
	}
	m.Forget(2)
	if m.TreatmentSize() != 0 {
		t.Fatal("Forget should remove the treatment queue entry")
	}
}

func TestPeeks(t *testing.T) {
	appts := seq.Of(
		checkedIn(7, at(8, 0), at(7, 55)),
		appt(9, appointment.StatusTreatment, at(8, 0)),
	)
	m := NewManager(appts, zap.NewNop())
	m.Rebuild()

	if id, ok := m.PeekCheckedIn(); !ok || id != 7 {
		t.Fatalf("PeekCheckedIn=%d,%v", id, ok)
	}
	if id, ok := m.PeekTreatment(); !ok || id != 9 {
		t.Fatalf("PeekTreatment=%d,%v", id, ok)
	}

	empty := NewManager(seq.New[*appointment.Appointment](), zap.NewNop())
	if _, ok := empty.PeekCheckedIn(); ok {
		t.Fatal("peek on empty manager should report false")
	}
}
