package sched

import "errors"

// Conflict errors name the specific reason a booking was refused so
// the caller can report it. No state is mutated when one is returned.
var (
	ErrDoctorOffDuty = errors.New("doctor is off duty for the requested slot")
	ErrDoctorBooked  = errors.New("doctor already has a booking overlapping the requested slot")
	ErrPatientBooked = errors.New("patient already has a booking overlapping the requested slot")
)
