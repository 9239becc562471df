// Package queue derives the two waiting lines from the appointment
// collection. The queues are projections: the collection is always the
// source of truth and both queues are rebuilt wholesale whenever
// membership could have changed. Rebuilding trades a little sorting
// work for the absence of incremental-update bugs; keep it that way.
package queue

import (
	"errors"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/pkg/seq"
)

var (
	// ErrCallActive fires when CallNext is invoked while a previous
	// call has not been released yet.
	ErrCallActive = errors.New("a called patient is already with the doctor")
	// ErrQueueEmpty fires when CallNext finds nobody waiting.
	ErrQueueEmpty = errors.New("no patients waiting in the queue")
)

type Manager struct {
	appts *seq.Array[*appointment.Appointment]

	checkedIn *seq.Array[int64]
	treatment *seq.Array[int64]

	// called is the single "being seen by the doctor" slot. At most
	// one appointment occupies it at a time.
	called *appointment.Appointment

	log *zap.Logger
}

func NewManager(appts *seq.Array[*appointment.Appointment], log *zap.Logger) *Manager {
	return &Manager{
		appts:     appts,
		checkedIn: seq.New[int64](),
		treatment: seq.New[int64](),
		log:       log,
	}
}

// Rebuild recomputes both queues from the collection's current
// statuses.
func (m *Manager) Rebuild() {
	m.rebuildCheckedIn()
	m.rebuildTreatment()
}

// lessCheckedIn orders the arrival queue: earlier-scheduled first,
// then earlier-arrived (missing check-in times last), then lower
// identity as the final tie-break.
func lessCheckedIn(x, y *appointment.Appointment) bool {
	if !x.ScheduledAt.Equal(y.ScheduledAt) {
		return x.ScheduledAt.Before(y.ScheduledAt)
	}
	switch {
	case x.CheckedInAt == nil && y.CheckedInAt == nil:
	case x.CheckedInAt == nil:
		return false
	case y.CheckedInAt == nil:
		return true
	case !x.CheckedInAt.Equal(*y.CheckedInAt):
		return x.CheckedInAt.Before(*y.CheckedInAt)
	}
	return x.ID < y.ID
}

func lessTreatment(x, y *appointment.Appointment) bool {
	if !x.ScheduledAt.Equal(y.ScheduledAt) {
		return x.ScheduledAt.Before(y.ScheduledAt)
	}
	return x.ID < y.ID
}

func (m *Manager) rebuildCheckedIn() {
	m.rebuildInto(m.checkedIn, appointment.StatusCheckedIn, lessCheckedIn)
}

func (m *Manager) rebuildTreatment() {
	m.rebuildInto(m.treatment, appointment.StatusTreatment, lessTreatment)
}

func (m *Manager) rebuildInto(q *seq.Array[int64], status appointment.Status, less func(x, y *appointment.Appointment) bool) {
	candidates := seq.New[*appointment.Appointment]()
	for it := m.appts.Iter(); it.Next(); {
		if a := it.Value(); a.Status == status {
			candidates.Add(a)
		}
	}
	candidates.Sort(less)

	q.Clear()
	for it := candidates.Iter(); it.Next(); {
		id := it.Value().ID
		if q.Contains(id) {
			continue
		}
		q.Enqueue(id)
	}
}

// RestoreTreatment replaces the treatment queue with a persisted
// snapshot, keeping the snapshot's order but dropping identities whose
// appointment is unknown or has left the treatment state.
func (m *Manager) RestoreTreatment(ids []int64) {
	m.treatment.Clear()
	for _, id := range ids {
		a, ok := m.find(id)
		if !ok || a.Status != appointment.StatusTreatment {
			m.log.Info("dropping stale treatment queue entry", zap.Int64("appointment_id", id))
			continue
		}
		if m.treatment.Contains(id) {
			continue
		}
		m.treatment.Enqueue(id)
	}
}

func (m *Manager) find(id int64) (*appointment.Appointment, bool) {
	for it := m.appts.Iter(); it.Next(); {
		if a := it.Value(); a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// CallNext dequeues the head of the arrival queue, moves it into
// consultation, and marks it as the called appointment. It fails
// without touching any state while a call is active or nobody waits.
func (m *Manager) CallNext() (*appointment.Appointment, error) {
	if m.called != nil {
		return nil, ErrCallActive
	}
	if m.checkedIn.Empty() {
		return nil, ErrQueueEmpty
	}

	id := m.checkedIn.Dequeue()
	a, ok := m.find(id)
	if !ok {
		// Queue drifted from the collection; heal it and report empty.
		m.log.Warn("queue referenced unknown appointment, rebuilding", zap.Int64("appointment_id", id))
		m.rebuildCheckedIn()
		return nil, ErrQueueEmpty
	}

	if err := a.StartConsultation(); err != nil {
		m.rebuildCheckedIn()
		return nil, err
	}
	m.called = a
	m.rebuildCheckedIn()
	return a, nil
}

// Release clears the called slot if id occupies it. Callers invoke it
// when the consultation ends, whichever transition ends it.
func (m *Manager) Release(id int64) {
	if m.called != nil && m.called.ID == id {
		m.called = nil
	}
}

// Forget removes an identity from both queues and the called slot.
// Used when a rebooking replaces an appointment outright.
func (m *Manager) Forget(id int64) {
	m.checkedIn.Remove(id)
	m.treatment.Remove(id)
	m.Release(id)
}

func (m *Manager) Called() (*appointment.Appointment, bool) {
	return m.called, m.called != nil
}

func (m *Manager) CheckedInIDs() []int64 { return m.checkedIn.Values() }
func (m *Manager) TreatmentIDs() []int64 { return m.treatment.Values() }

func (m *Manager) CheckedInSize() int { return m.checkedIn.Len() }
func (m *Manager) TreatmentSize() int { return m.treatment.Len() }

func (m *Manager) PeekCheckedIn() (int64, bool) {
	if m.checkedIn.Empty() {
		return 0, false
	}
	return m.checkedIn.Peek(), true
}

func (m *Manager) PeekTreatment() (int64, bool) {
	if m.treatment.Empty() {
		return 0, false
	}
	return m.treatment.Peek(), true
}
