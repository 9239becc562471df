package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisched/medisched/internal/domain/doctor"
	"github.com/medisched/medisched/internal/domain/patient"
	"github.com/medisched/medisched/internal/registry"
	"github.com/medisched/medisched/internal/service"
)

// RegistryHandler serves the read-only collaborator registries:
// doctors with their duty rosters, patients, and pharmacy stock.
type RegistryHandler struct {
	svc       *service.AppointmentService
	patients  *registry.Patients
	doctors   *registry.Doctors
	medicines *registry.Medicines
}

func NewRegistryHandler(svc *service.AppointmentService, patients *registry.Patients, doctors *registry.Doctors, medicines *registry.Medicines) *RegistryHandler {
	return &RegistryHandler{svc: svc, patients: patients, doctors: doctors, medicines: medicines}
}

type doctorResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Specialty string            `json:"specialty"`
	Duty      map[string]string `json:"duty"`
}

func toDoctorResponse(d *doctor.Doctor) doctorResponse {
	duty := make(map[string]string, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		duty[day.String()] = string(d.Duty.ShiftFor(day))
	}
	return doctorResponse{ID: d.ID, Name: d.Name, Specialty: d.Specialty, Duty: duty}
}

func (h *RegistryHandler) ListDoctors(c *gin.Context) {
	all := h.doctors.All()
	out := make([]doctorResponse, 0, len(all))
	for _, d := range all {
		out = append(out, toDoctorResponse(d))
	}
	respondOK(c, out)
}

type availabilityResponse struct {
	DoctorID  string `json:"doctorId"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DoctorAvailability answers whether a one-hour slot starting at ?time=
// could be booked with the doctor.
func (h *RegistryHandler) DoctorAvailability(c *gin.Context) {
	rawTime := c.Query("time")
	if rawTime == "" {
		respondError(c, http.StatusBadRequest, "time query parameter is required")
		return
	}
	at, ok := parseTime(c, rawTime)
	if !ok {
		return
	}

	available, err := h.svc.DoctorAvailability(c.Param("id"), at)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, availabilityResponse{
		DoctorID:  c.Param("id"),
		Time:      rawTime,
		Available: available,
	})
}

type patientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
}

func (h *RegistryHandler) GetPatient(c *gin.Context) {
	p, ok := h.patients.GetByID(c.Param("id"))
	if !ok {
		respondServiceError(c, patient.ErrPatientNotFound)
		return
	}
	respondOK(c, patientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Gender:      string(p.Gender),
		DateOfBirth: p.DateOfBirth.Format("2006-01-02"),
		Phone:       p.Phone,
	})
}

type medicineResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Stock     int     `json:"stock"`
}

func (h *RegistryHandler) ListMedicines(c *gin.Context) {
	all := h.medicines.All()
	out := make([]medicineResponse, 0, len(all))
	for _, m := range all {
		out = append(out, medicineResponse{ID: m.ID, Name: m.Name, UnitPrice: m.UnitPrice, Stock: m.Stock})
	}
	respondOK(c, out)
}
