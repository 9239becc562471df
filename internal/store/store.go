// Package store persists the appointment collection and the treatment
// queue snapshot as line-oriented text files, rewritten wholesale on
// every mutation, and reconstructs both on startup.
//
// Reload does not trust recorded statuses verbatim: each line is
// rebuilt in its initial state and the status is replayed through the
// real transition methods, so derived fields (check-in timestamp,
// outcome flags) are regenerated even from a hand-edited file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/pkg/ident"
)

// TimeLayout is the fixed timestamp pattern of both files.
const TimeLayout = "2006-01-02 15:04"

const (
	apptHeader = "# id,patientId,patientName,doctorId,doctorName,scheduledTime,type,status"
	snapHeader = "# id,patientId,patientName,doctorId,doctorName,scheduledTime"
)

type Store struct {
	apptPath string
	snapPath string
	log      *zap.Logger
}

func New(apptPath, snapPath string, log *zap.Logger) *Store {
	return &Store{apptPath: apptPath, snapPath: snapPath, log: log}
}

// sanitize strips the characters that would break the line format out
// of free-text fields.
var sanitizer = strings.NewReplacer(",", " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return strings.TrimSpace(sanitizer.Replace(s))
}

// SaveAppointments rewrites the whole appointment log.
func (s *Store) SaveAppointments(appts []*appointment.Appointment) error {
	var b strings.Builder
	b.WriteString(apptHeader)
	b.WriteByte('\n')
	for _, a := range appts {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%s,%s,%s\n",
			a.ID,
			sanitize(a.PatientID), sanitize(a.PatientName),
			sanitize(a.DoctorID), sanitize(a.DoctorName),
			a.ScheduledAt.Format(TimeLayout),
			a.Type, a.Status,
		)
	}
	if err := os.WriteFile(s.apptPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing appointment log: %w", err)
	}
	return nil
}

// LoadAppointments reads the appointment log, skipping comments, blank
// lines, and malformed rows. Identities are restored verbatim and
// reported to the generator so fresh bookings continue above them.
// A missing file is an empty collection, never an error.
func (s *Store) LoadAppointments(gen *ident.Generator, now time.Time) ([]*appointment.Appointment, error) {
	raw, err := os.ReadFile(s.apptPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading appointment log: %w", err)
	}

	var out []*appointment.Appointment
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := s.parseLine(line, now)
		if err != nil {
			s.log.Warn("skipping malformed appointment log line",
				zap.Int("line", i+1), zap.Error(err))
			continue
		}
		gen.Observe(a.ID)
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) parseLine(line string, now time.Time) (*appointment.Appointment, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 8 {
		return nil, fmt.Errorf("expected 8 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", fields[0], err)
	}
	scheduledAt, err := time.Parse(TimeLayout, fields[5])
	if err != nil {
		return nil, fmt.Errorf("bad scheduled time %q: %w", fields[5], err)
	}
	typ := appointment.Type(fields[6])
	if !typ.IsValid() {
		return nil, fmt.Errorf("bad type %q", fields[6])
	}
	status := appointment.Status(fields[7])
	if !status.IsValid() {
		return nil, fmt.Errorf("bad status %q", fields[7])
	}

	// Reconstruct in the initial state, then replay the recorded
	// status through the real transitions.
	a := &appointment.Appointment{
		ID:          id,
		PatientID:   fields[1],
		PatientName: fields[2],
		DoctorID:    fields[3],
		DoctorName:  fields[4],
		ScheduledAt: scheduledAt,
		Type:        typ,
		Status:      appointment.StatusBooked,
	}
	if err := replayStatus(a, status, now); err != nil {
		return nil, fmt.Errorf("replaying status %q: %w", status, err)
	}
	return a, nil
}

// replayStatus drives an appointment from booked to the recorded
// status using the guarded transition operations.
func replayStatus(a *appointment.Appointment, target appointment.Status, at time.Time) error {
	type step func() error
	var steps []step

	checkIn := func() error { return a.CheckIn(at) }
	consult := func() error { return a.StartConsultation() }

	switch target {
	case appointment.StatusBooked:
	case appointment.StatusCheckedIn:
		steps = []step{checkIn}
	case appointment.StatusConsulting:
		steps = []step{checkIn, consult}
	case appointment.StatusTreatment:
		steps = []step{checkIn, consult, func() error {
			return a.CompleteConsultation(a.Symptoms, a.Diagnosis, true, a.MedicineNeeded)
		}}
	case appointment.StatusPendingPayment:
		steps = []step{checkIn, consult, func() error {
			return a.CompleteConsultation(a.Symptoms, a.Diagnosis, false, a.MedicineNeeded)
		}}
	case appointment.StatusCompleted:
		steps = []step{checkIn, consult, func() error {
			return a.CompleteConsultation(a.Symptoms, a.Diagnosis, false, a.MedicineNeeded)
		}, a.Complete}
	default:
		return appointment.ErrInvalidStatusTransition
	}

	for _, st := range steps {
		if err := st(); err != nil {
			return err
		}
	}
	return nil
}

// SaveTreatmentSnapshot rewrites the treatment queue snapshot. Only
// rows still in the treatment state are written back; the given order
// is the queue order.
func (s *Store) SaveTreatmentSnapshot(rows []*appointment.Appointment) error {
	var b strings.Builder
	b.WriteString(snapHeader)
	b.WriteByte('\n')
	for _, a := range rows {
		if a.Status != appointment.StatusTreatment {
			continue
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%s\n",
			a.ID,
			sanitize(a.PatientID), sanitize(a.PatientName),
			sanitize(a.DoctorID), sanitize(a.DoctorName),
			a.ScheduledAt.Format(TimeLayout),
		)
	}
	if err := os.WriteFile(s.snapPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing treatment queue snapshot: %w", err)
	}
	return nil
}

// LoadTreatmentSnapshot reads the snapshot's appointment identities in
// file order. The second return distinguishes a present (possibly
// empty) snapshot, which is trusted, from an absent one, after which
// the queue must be rebuilt by scanning the collection.
func (s *Store) LoadTreatmentSnapshot() ([]int64, bool, error) {
	raw, err := os.ReadFile(s.snapPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading treatment queue snapshot: %w", err)
	}

	ids := []int64{}
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idField, _, _ := strings.Cut(line, ",")
		id, err := strconv.ParseInt(idField, 10, 64)
		if err != nil {
			s.log.Warn("skipping malformed snapshot line",
				zap.Int("line", i+1), zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}
