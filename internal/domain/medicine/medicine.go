package medicine

import "errors"

var ErrMedicineNotFound = errors.New("medicine not found")

// Medicine is a plain pharmacy stock record. Dispensing and billing
// arithmetic live outside the appointment core; the record exists so
// consultations that flag medicine-needed can be priced downstream.
type Medicine struct {
	ID        string
	Name      string
	UnitPrice float64
	Stock     int
}
