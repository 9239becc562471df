package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medisched/medisched/internal/service"
)

type QueueHandler struct {
	svc *service.AppointmentService
}

func NewQueueHandler(svc *service.AppointmentService) *QueueHandler {
	return &QueueHandler{svc: svc}
}

type queueSnapshotResponse struct {
	CheckedIn     []int64              `json:"checkedIn"`
	Treatment     []int64              `json:"treatment"`
	NextCheckedIn *appointmentResponse `json:"nextCheckedIn,omitempty"`
	NextTreatment *appointmentResponse `json:"nextTreatment,omitempty"`
	Called        *appointmentResponse `json:"called,omitempty"`
}

// Snapshot reports both waiting lines, their heads, and whoever is with
// the doctor right now.
func (h *QueueHandler) Snapshot(c *gin.Context) {
	resp := queueSnapshotResponse{
		CheckedIn: h.svc.CheckedInQueue(),
		Treatment: h.svc.TreatmentQueue(),
	}
	if a, ok := h.svc.PeekCheckedIn(); ok {
		r := toResponse(a)
		resp.NextCheckedIn = &r
	}
	if a, ok := h.svc.PeekTreatment(); ok {
		r := toResponse(a)
		resp.NextTreatment = &r
	}
	if a, ok := h.svc.Called(); ok {
		r := toResponse(a)
		resp.Called = &r
	}
	respondOK(c, resp)
}

// CallNext admits the head of the arrival queue to the doctor.
func (h *QueueHandler) CallNext(c *gin.Context) {
	a, err := h.svc.CallNext()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toResponse(a))
}
