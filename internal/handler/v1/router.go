package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/registry"
	"github.com/medisched/medisched/internal/service"
	"github.com/medisched/medisched/pkg/metrics"
)

// NewRouter wires all routes, middleware, and operational endpoints.
func NewRouter(
	svc *service.AppointmentService,
	patients *registry.Patients,
	doctors *registry.Doctors,
	medicines *registry.Medicines,
	m *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log), Tracing(), Metrics(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	appointments := NewAppointmentHandler(svc)
	queues := NewQueueHandler(svc)
	registries := NewRegistryHandler(svc, patients, doctors, medicines)

	api := r.Group("/api/v1")
	{
		a := api.Group("/appointments")
		{
			a.POST("", appointments.Create)
			a.GET("", appointments.List)
			a.GET("/search", appointments.Search)
			a.GET("/pending-check-in", appointments.PendingCheckIn)
			a.GET("/:id", appointments.Get)
			a.POST("/:id/check-in", appointments.CheckIn)
			a.POST("/:id/consultation", appointments.CompleteConsultation)
			a.POST("/:id/treatment/complete", appointments.CompleteTreatment)
			a.POST("/:id/complete", appointments.Complete)
		}

		q := api.Group("/queue")
		{
			q.GET("", queues.Snapshot)
			q.POST("/call-next", queues.CallNext)
		}

		d := api.Group("/doctors")
		{
			d.GET("", registries.ListDoctors)
			d.GET("/:id/availability", registries.DoctorAvailability)
		}

		api.GET("/patients/:id", registries.GetPatient)
		api.GET("/medicines", registries.ListMedicines)
	}

	return r
}
