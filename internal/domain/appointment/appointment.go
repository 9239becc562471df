package appointment

import "time"

type Type string

const (
	TypeOnline Type = "online"
	TypeWalkIn Type = "walk_in"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeOnline, TypeWalkIn:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	booked → checked_in → consulting → treatment → pending_payment → completed
//	                      consulting → pending_payment (no treatment needed)
//
// Status never regresses. Completion (payment) is reachable from any
// non-completed state because billing may settle an appointment that
// was abandoned mid-flow.
type Status string

const (
	StatusBooked         Status = "booked"
	StatusCheckedIn      Status = "checked_in"
	StatusConsulting     Status = "consulting"
	StatusTreatment      Status = "treatment"
	StatusPendingPayment Status = "pending_payment"
	StatusCompleted      Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCheckedIn, StatusConsulting, StatusTreatment,
		StatusPendingPayment, StatusCompleted:
		return true
	}
	return false
}

// Slot durations are fixed by class: consultations take one hour,
// treatments two.
const (
	ConsultationDuration = time.Hour
	TreatmentDuration    = 2 * time.Hour
)

type Appointment struct {
	ID int64

	PatientID   string
	PatientName string
	DoctorID    string
	DoctorName  string

	ScheduledAt time.Time
	Type        Type
	Status      Status

	CheckedInAt *time.Time

	Symptoms  string
	Diagnosis string

	TreatmentNeeded bool
	MedicineNeeded  bool
}

// New creates an appointment in its initial state. Walk-ins skip the
// booked stage entirely: they are checked in at creation time.
func New(id int64, patientID, patientName, doctorID, doctorName string, scheduledAt time.Time, typ Type, now time.Time) *Appointment {
	a := &Appointment{
		ID:          id,
		PatientID:   patientID,
		PatientName: patientName,
		DoctorID:    doctorID,
		DoctorName:  doctorName,
		ScheduledAt: scheduledAt,
		Type:        typ,
		Status:      StatusBooked,
	}
	if typ == TypeWalkIn {
		a.Status = StatusCheckedIn
		checkedIn := now
		a.CheckedInAt = &checkedIn
	}
	return a
}

// Duration returns the slot length the appointment occupies on the
// doctor's calendar.
func (a *Appointment) Duration() time.Duration {
	if a.Status == StatusTreatment {
		return TreatmentDuration
	}
	return ConsultationDuration
}

func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(a.Duration())
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusBooked:         {StatusCheckedIn},
		StatusCheckedIn:      {StatusConsulting},
		StatusConsulting:     {StatusTreatment, StatusPendingPayment},
		StatusTreatment:      {StatusPendingPayment},
		StatusPendingPayment: {StatusCompleted},
		StatusCompleted:      {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// CheckIn records the patient's arrival. Only booked appointments can
// check in.
func (a *Appointment) CheckIn(at time.Time) error {
	if !a.CanTransitionTo(StatusCheckedIn) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCheckedIn
	checkedIn := at
	a.CheckedInAt = &checkedIn
	return nil
}

// StartConsultation moves a checked-in patient in front of the doctor.
func (a *Appointment) StartConsultation() error {
	if !a.CanTransitionTo(StatusConsulting) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusConsulting
	return nil
}

// CompleteConsultation records the outcome of the consultation and
// branches the lifecycle: into treatment when treatment is needed,
// straight to payment otherwise. The flags are recorded either way.
func (a *Appointment) CompleteConsultation(symptoms, diagnosis string, treatmentNeeded, medicineNeeded bool) error {
	next := StatusPendingPayment
	if treatmentNeeded {
		next = StatusTreatment
	}
	if !a.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	a.Status = next
	a.Symptoms = symptoms
	a.Diagnosis = diagnosis
	a.TreatmentNeeded = treatmentNeeded
	a.MedicineNeeded = medicineNeeded
	return nil
}

// CompleteTreatment releases the patient from the treatment room into
// billing.
func (a *Appointment) CompleteTreatment() error {
	if a.Status != StatusTreatment {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusPendingPayment
	return nil
}

// Complete settles the appointment. Billing may invoke this from any
// live state; completed is terminal.
func (a *Appointment) Complete() error {
	if a.Status == StatusCompleted {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	return nil
}
