// Package service owns the appointment collection and orchestrates
// the scheduler, queue manager, and store around it. It is the single
// writer the core assumes: the mutex only serializes HTTP callers at
// the boundary, nothing below it locks.
package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/internal/domain/doctor"
	"github.com/medisched/medisched/internal/domain/patient"
	"github.com/medisched/medisched/internal/queue"
	"github.com/medisched/medisched/internal/sched"
	"github.com/medisched/medisched/internal/store"
	"github.com/medisched/medisched/pkg/ident"
	"github.com/medisched/medisched/pkg/metrics"
	"github.com/medisched/medisched/pkg/seq"
)

// PatientDirectory is the narrow view of the patient registry the
// service needs.
type PatientDirectory interface {
	GetByID(id string) (*patient.Patient, bool)
}

type AppointmentService struct {
	mu sync.Mutex

	appts  *seq.Array[*appointment.Appointment]
	sched  *sched.Scheduler
	queues *queue.Manager
	store  *store.Store

	patients PatientDirectory
	doctors  sched.DoctorDirectory

	ids     *ident.Generator
	metrics *metrics.Collector
	log     *zap.Logger
	now     func() time.Time
}

func NewAppointmentService(
	patients PatientDirectory,
	doctors sched.DoctorDirectory,
	legacy sched.LegacyRecords,
	st *store.Store,
	ids *ident.Generator,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	appts := seq.New[*appointment.Appointment]()
	return &AppointmentService{
		appts:    appts,
		sched:    sched.New(appts, doctors, legacy, log),
		queues:   queue.NewManager(appts, log),
		store:    st,
		patients: patients,
		doctors:  doctors,
		ids:      ids,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Load reconstructs the collection and both queues from disk. The
// checked-in queue is always rebuilt from statuses; the treatment
// queue trusts an existing snapshot file (even an empty one) and is
// scanned from the collection only on a genuinely first run.
func (s *AppointmentService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.LoadAppointments(s.ids, s.now())
	if err != nil {
		s.log.Warn("appointment log unreadable, starting with an empty collection", zap.Error(err))
	}
	for _, a := range list {
		s.appts.Add(a)
	}

	s.queues.Rebuild()

	snapIDs, exists, err := s.store.LoadTreatmentSnapshot()
	if err != nil {
		s.log.Warn("treatment queue snapshot unreadable, keeping rebuilt queue", zap.Error(err))
		exists = false
	}
	if exists {
		s.queues.RestoreTreatment(snapIDs)
	}
	s.updateQueueGauges()

	s.log.Info("appointment collection loaded",
		zap.Int("appointments", s.appts.Len()),
		zap.Int("checked_in_waiting", s.queues.CheckedInSize()),
		zap.Int("treatment_waiting", s.queues.TreatmentSize()),
		zap.Bool("snapshot_present", exists))
}

// AddAppointment validates the slot and books it. When the same
// patient already holds a booking at exactly the same instant, the
// prior row is dropped and replaced: last write wins for accidental
// double submissions.
func (s *AppointmentService) AddAppointment(patientID, doctorID string, at time.Time, typ appointment.Type) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !typ.IsValid() {
		return nil, appointment.ErrInvalidAppointmentType
	}
	p, ok := s.patients.GetByID(patientID)
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	d, ok := s.doctors.GetByID(doctorID)
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}

	// The log stores minute resolution; anything finer would not
	// survive a reload.
	at = at.Truncate(time.Minute)

	if err := s.sched.CheckSlot(d, p.ID, at, appointment.ConsultationDuration); err != nil {
		s.metrics.BookingsRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	s.dropRebooked(p.ID, at)

	a := appointment.New(s.ids.Next(), p.ID, p.Name, d.ID, d.Name, at, typ, s.now())
	s.appts.Add(a)
	s.afterMutation(a.Status)

	s.log.Info("appointment booked",
		zap.Int64("appointment_id", a.ID),
		zap.String("patient_id", p.ID),
		zap.String("doctor_id", d.ID),
		zap.Time("scheduled_at", at),
		zap.String("type", string(typ)))
	s.metrics.BookingsTotal.WithLabelValues(string(typ)).Inc()

	return a, nil
}

// dropRebooked removes every booking of the patient at exactly at,
// purging it from the queues and the called slot.
func (s *AppointmentService) dropRebooked(patientID string, at time.Time) {
	for i := 0; i < s.appts.Len(); {
		a := s.appts.Get(i)
		if a.PatientID == patientID && a.ScheduledAt.Equal(at) {
			s.appts.RemoveAt(i)
			s.queues.Forget(a.ID)
			s.log.Info("replacing prior booking at the same instant",
				zap.Int64("replaced_id", a.ID), zap.String("patient_id", patientID))
			continue
		}
		i++
	}
}

func rejectionReason(err error) string {
	switch err {
	case sched.ErrDoctorOffDuty:
		return "off_duty"
	case sched.ErrDoctorBooked:
		return "doctor_booked"
	case sched.ErrPatientBooked:
		return "patient_booked"
	}
	return "other"
}

// CheckIn records a booked patient's arrival and re-derives the
// queues.
func (s *AppointmentService) CheckIn(id int64) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.find(id)
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err := a.CheckIn(s.now()); err != nil {
		return nil, err
	}
	s.afterMutation(a.Status)
	return a, nil
}

// CallNext moves the head of the arrival queue in front of the doctor.
func (s *AppointmentService) CallNext() (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.queues.CallNext()
	if err != nil {
		return nil, err
	}
	s.afterMutation(a.Status)
	return a, nil
}

// CompleteConsultation records the consultation outcome, releases the
// called slot, and routes the patient to treatment or billing.
func (s *AppointmentService) CompleteConsultation(id int64, symptoms, diagnosis string, treatmentNeeded, medicineNeeded bool) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.find(id)
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err := a.CompleteConsultation(symptoms, diagnosis, treatmentNeeded, medicineNeeded); err != nil {
		return nil, err
	}
	s.queues.Release(id)
	s.afterMutation(a.Status)
	return a, nil
}

// CompleteTreatment releases the patient from the treatment room.
func (s *AppointmentService) CompleteTreatment(id int64) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.find(id)
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err := a.CompleteTreatment(); err != nil {
		return nil, err
	}
	s.afterMutation(a.Status)
	return a, nil
}

// MarkCompleted settles the appointment; billing calls this once
// payment clears, whatever state the appointment is in.
func (s *AppointmentService) MarkCompleted(id int64) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.find(id)
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err := a.Complete(); err != nil {
		return nil, err
	}
	s.queues.Release(id)
	s.afterMutation(a.Status)
	return a, nil
}

func (s *AppointmentService) GetAll() []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appts.Values()
}

func (s *AppointmentService) GetByID(id int64) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.find(id)
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (s *AppointmentService) SearchByDoctor(doctorID string) []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.SearchByDoctor(doctorID)
}

func (s *AppointmentService) SearchByTimeSlot(at time.Time) []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.SearchByTimeSlot(at.Truncate(time.Minute))
}

// DoctorAvailability reports whether a one-hour slot starting at the
// given time could be booked with the doctor right now.
func (s *AppointmentService) DoctorAvailability(doctorID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.doctors.GetByID(doctorID)
	if !ok {
		return false, doctor.ErrDoctorNotFound
	}
	at = at.Truncate(time.Minute)
	return s.sched.IsDoctorAvailableForAppointment(d, at, appointment.ConsultationDuration), nil
}

// OnlinePendingCheckIn lists online bookings whose patients have not
// arrived yet.
func (s *AppointmentService) OnlinePendingCheckIn() []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*appointment.Appointment
	for it := s.appts.Iter(); it.Next(); {
		a := it.Value()
		if a.Type == appointment.TypeOnline && a.Status == appointment.StatusBooked {
			out = append(out, a)
		}
	}
	return out
}

func (s *AppointmentService) CheckedInQueue() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queues.CheckedInIDs()
}

func (s *AppointmentService) TreatmentQueue() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queues.TreatmentIDs()
}

func (s *AppointmentService) QueueSizes() (checkedIn, treatment int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queues.CheckedInSize(), s.queues.TreatmentSize()
}

func (s *AppointmentService) PeekCheckedIn() (*appointment.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.queues.PeekCheckedIn()
	if !ok {
		return nil, false
	}
	return s.find(id)
}

func (s *AppointmentService) PeekTreatment() (*appointment.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.queues.PeekTreatment()
	if !ok {
		return nil, false
	}
	return s.find(id)
}

// Called returns the appointment currently with the doctor, if any.
func (s *AppointmentService) Called() (*appointment.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queues.Called()
}

func (s *AppointmentService) find(id int64) (*appointment.Appointment, bool) {
	for it := s.appts.Iter(); it.Next(); {
		if a := it.Value(); a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// afterMutation is the tail of every state change: re-derive the
// queues from the collection, refresh the gauges, and flush to disk.
func (s *AppointmentService) afterMutation(resulting appointment.Status) {
	s.queues.Rebuild()
	s.updateQueueGauges()
	s.flush()
	s.metrics.TransitionsTotal.WithLabelValues(string(resulting)).Inc()
}

func (s *AppointmentService) updateQueueGauges() {
	s.metrics.QueueDepth.WithLabelValues("checked_in").Set(float64(s.queues.CheckedInSize()))
	s.metrics.QueueDepth.WithLabelValues("treatment").Set(float64(s.queues.TreatmentSize()))
}

// flush rewrites both files. Failures degrade to in-memory operation
// for this run: logged and counted, never fatal.
func (s *AppointmentService) flush() {
	if err := s.store.SaveAppointments(s.appts.Values()); err != nil {
		s.metrics.StoreWriteFailures.Inc()
		s.log.Warn("appointment log write failed, continuing in memory", zap.Error(err))
	}

	rows := make([]*appointment.Appointment, 0, s.queues.TreatmentSize())
	for _, id := range s.queues.TreatmentIDs() {
		if a, ok := s.find(id); ok {
			rows = append(rows, a)
		}
	}
	if err := s.store.SaveTreatmentSnapshot(rows); err != nil {
		s.metrics.StoreWriteFailures.Inc()
		s.log.Warn("treatment queue snapshot write failed, continuing in memory", zap.Error(err))
	}
}
