package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/internal/service"
	"github.com/medisched/medisched/internal/store"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	DoctorID      string `json:"doctorId" binding:"required"`
	ScheduledTime string `json:"scheduledTime" binding:"required"`
	Type          string `json:"type" binding:"required"`
}

type consultationOutcomeRequest struct {
	Symptoms        string `json:"symptoms"`
	Diagnosis       string `json:"diagnosis"`
	TreatmentNeeded bool   `json:"treatmentNeeded"`
	MedicineNeeded  bool   `json:"medicineNeeded"`
}

type appointmentResponse struct {
	ID            int64      `json:"id"`
	PatientID     string     `json:"patientId"`
	PatientName   string     `json:"patientName"`
	DoctorID      string     `json:"doctorId"`
	DoctorName    string     `json:"doctorName"`
	ScheduledTime string     `json:"scheduledTime"`
	EndsAt        string     `json:"endsAt"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	CheckedInAt   *time.Time `json:"checkedInAt,omitempty"`
	Symptoms      string     `json:"symptoms,omitempty"`
	Diagnosis     string     `json:"diagnosis,omitempty"`
}

func toResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		PatientName:   a.PatientName,
		DoctorID:      a.DoctorID,
		DoctorName:    a.DoctorName,
		ScheduledTime: a.ScheduledAt.Format(store.TimeLayout),
		EndsAt:        a.EndsAt().Format(store.TimeLayout),
		Type:          string(a.Type),
		Status:        string(a.Status),
		CheckedInAt:   a.CheckedInAt,
		Symptoms:      a.Symptoms,
		Diagnosis:     a.Diagnosis,
	}
}

func toResponses(list []*appointment.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	return out
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	at, ok := parseTime(c, req.ScheduledTime)
	if !ok {
		return
	}

	a, err := h.svc.AddAppointment(req.PatientID, req.DoctorID, at, appointment.Type(req.Type))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toResponse(a))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	respondOK(c, toResponses(h.svc.GetAll()))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}

// Search answers either ?doctorId= or ?time=; exactly one is required.
func (h *AppointmentHandler) Search(c *gin.Context) {
	doctorID := c.Query("doctorId")
	rawTime := c.Query("time")

	switch {
	case doctorID != "" && rawTime != "":
		respondError(c, http.StatusBadRequest, "pass either doctorId or time, not both")
	case doctorID != "":
		respondOK(c, toResponses(h.svc.SearchByDoctor(doctorID)))
	case rawTime != "":
		at, ok := parseTime(c, rawTime)
		if !ok {
			return
		}
		respondOK(c, toResponses(h.svc.SearchByTimeSlot(at)))
	default:
		respondError(c, http.StatusBadRequest, "doctorId or time query parameter is required")
	}
}

func (h *AppointmentHandler) PendingCheckIn(c *gin.Context) {
	respondOK(c, toResponses(h.svc.OnlinePendingCheckIn()))
}

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.CheckIn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}

func (h *AppointmentHandler) CompleteConsultation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req consultationOutcomeRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CompleteConsultation(id, req.Symptoms, req.Diagnosis, req.TreatmentNeeded, req.MedicineNeeded)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}

func (h *AppointmentHandler) CompleteTreatment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.CompleteTreatment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.MarkCompleted(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}
