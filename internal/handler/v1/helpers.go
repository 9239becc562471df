package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisched/medisched/internal/domain/appointment"
	"github.com/medisched/medisched/internal/domain/doctor"
	"github.com/medisched/medisched/internal/domain/medicine"
	"github.com/medisched/medisched/internal/domain/patient"
	"github.com/medisched/medisched/internal/queue"
	"github.com/medisched/medisched/internal/sched"
	"github.com/medisched/medisched/internal/store"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, medicine.ErrMedicineNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, sched.ErrDoctorOffDuty):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DOCTOR_OFF_DUTY"})

	case errors.Is(err, sched.ErrDoctorBooked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DOCTOR_BOOKED"})

	case errors.Is(err, sched.ErrPatientBooked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "PATIENT_BOOKED"})

	case errors.Is(err, queue.ErrCallActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "CALL_ACTIVE"})

	case errors.Is(err, queue.ErrQueueEmpty):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "QUEUE_EMPTY"})

	case errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrInvalidAppointmentType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a number"})
		return 0, false
	}
	return id, true
}

// parseTime accepts the store's minute-resolution layout or RFC 3339.
func parseTime(c *gin.Context, raw string) (time.Time, bool) {
	if t, err := time.Parse(store.TimeLayout, raw); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid time: use '" + store.TimeLayout + "' or RFC 3339",
		})
		return time.Time{}, false
	}
	return t, true
}
