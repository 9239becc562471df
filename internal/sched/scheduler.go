// Package sched validates candidate slots against duty calendars and
// every booking already on record, and answers slot-availability
// queries for the rest of the system.
package sched

import (
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/internal/domain/doctor"
	"github.com/medisched/medisched/internal/domain/duty"
	"github.com/medisched/medisched/pkg/seq"
)

// DoctorDirectory is the narrow view of the doctor registry the
// scheduler needs.
type DoctorDirectory interface {
	GetByID(id string) (*doctor.Doctor, bool)
	All() []*doctor.Doctor
}

// LegacyRecords exposes historical consultation and treatment slots.
// They are consulted only for overlap detection; the scheduler never
// mutates them.
type LegacyRecords interface {
	// ConsultationStarts returns start times of one-hour consultation
	// records for the doctor.
	ConsultationStarts(doctorID string) []time.Time
	// TreatmentStarts returns start times of two-hour treatment
	// records for the doctor.
	TreatmentStarts(doctorID string) []time.Time
}

type Scheduler struct {
	appts   *seq.Array[*appointment.Appointment]
	doctors DoctorDirectory
	legacy  LegacyRecords
	log     *zap.Logger
}

// New wires the scheduler over the shared appointment collection. The
// collection is owned by the service layer; the scheduler only reads
// it.
func New(appts *seq.Array[*appointment.Appointment], doctors DoctorDirectory, legacy LegacyRecords, log *zap.Logger) *Scheduler {
	return &Scheduler{appts: appts, doctors: doctors, legacy: legacy, log: log}
}

// overlaps is the half-open interval test used for every
// double-booking check.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// IsDoctorAvailable reports whether the candidate interval
// [start, start+d) fits entirely inside the doctor's shift window for
// that weekday. Partial-shift bookings are rejected.
func (s *Scheduler) IsDoctorAvailable(doc *doctor.Doctor, start time.Time, d time.Duration) bool {
	shift := doc.Duty.ShiftFor(start.Weekday())
	winStart, winEnd, ok := shift.Window()
	if !ok {
		return false
	}
	from := duty.ClockOf(start)
	to := from + duty.ClockTime(d.Minutes())
	return from >= winStart && to <= winEnd
}

// IsDoctorAvailableForAppointment additionally scans every existing
// booking for the doctor, appointments and legacy records alike, and
// rejects on any overlap.
func (s *Scheduler) IsDoctorAvailableForAppointment(doc *doctor.Doctor, start time.Time, d time.Duration) bool {
	if !s.IsDoctorAvailable(doc, start, d) {
		return false
	}
	return !s.doctorOverlap(doc.ID, start, start.Add(d), nil)
}

// IsDoctorBooked scans the appointment collection only, assuming a
// fixed one-hour candidate slot.
func (s *Scheduler) IsDoctorBooked(doctorID string, start time.Time) bool {
	end := start.Add(appointment.ConsultationDuration)
	for it := s.appts.Iter(); it.Next(); {
		a := it.Value()
		if a.DoctorID == doctorID && overlaps(start, end, a.ScheduledAt, a.EndsAt()) {
			return true
		}
	}
	return false
}

// doctorOverlap scans the doctor's bookings for an overlap with
// [start, end). Rows matched by skip are ignored; CheckSlot uses that
// to exempt an appointment about to be replaced by a rebooking.
func (s *Scheduler) doctorOverlap(doctorID string, start, end time.Time, skip func(*appointment.Appointment) bool) bool {
	for it := s.appts.Iter(); it.Next(); {
		a := it.Value()
		if skip != nil && skip(a) {
			continue
		}
		if a.DoctorID == doctorID && overlaps(start, end, a.ScheduledAt, a.EndsAt()) {
			return true
		}
	}
	for _, at := range s.legacy.ConsultationStarts(doctorID) {
		if overlaps(start, end, at, at.Add(appointment.ConsultationDuration)) {
			return true
		}
	}
	for _, at := range s.legacy.TreatmentStarts(doctorID) {
		if overlaps(start, end, at, at.Add(appointment.TreatmentDuration)) {
			return true
		}
	}
	return false
}

// patientOverlap scans the appointment collection for a booking of the
// same patient overlapping [start, end). Rows scheduled at exactly
// start are skipped: those are idempotent rebookings, replaced by the
// caller rather than treated as conflicts.
func (s *Scheduler) patientOverlap(patientID string, start, end time.Time) bool {
	for it := s.appts.Iter(); it.Next(); {
		a := it.Value()
		if a.PatientID != patientID {
			continue
		}
		if a.ScheduledAt.Equal(start) {
			continue
		}
		if overlaps(start, end, a.ScheduledAt, a.EndsAt()) {
			return true
		}
	}
	return false
}

// CheckSlot validates a candidate (doctor, start, duration) triple for
// a patient and returns the specific conflict that fired, or nil when
// the slot is bookable.
func (s *Scheduler) CheckSlot(doc *doctor.Doctor, patientID string, start time.Time, d time.Duration) error {
	if !s.IsDoctorAvailable(doc, start, d) {
		return ErrDoctorOffDuty
	}
	end := start.Add(d)
	rebooked := func(a *appointment.Appointment) bool {
		return a.PatientID == patientID && a.ScheduledAt.Equal(start)
	}
	if s.doctorOverlap(doc.ID, start, end, rebooked) {
		s.log.Debug("slot rejected: doctor overlap",
			zap.String("doctor_id", doc.ID), zap.Time("start", start))
		return ErrDoctorBooked
	}
	if s.patientOverlap(patientID, start, end) {
		s.log.Debug("slot rejected: patient overlap",
			zap.String("patient_id", patientID), zap.Time("start", start))
		return ErrPatientBooked
	}
	return nil
}
