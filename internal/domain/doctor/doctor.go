package doctor

import (
	"errors"

	"github.com/medisched/medisched/internal/domain/duty"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// Doctor carries the identity the scheduler needs plus the weekly duty
// calendar created for the doctor at registration.
type Doctor struct {
	ID        string
	Name      string
	Specialty string
	Duty      *duty.Calendar
}

func New(id, name, specialty string) *Doctor {
	return &Doctor{
		ID:        id,
		Name:      name,
		Specialty: specialty,
		Duty:      duty.NewCalendar(),
	}
}
