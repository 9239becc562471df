package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/medisched/medisched/config"
	v1 "github.com/medisched/medisched/internal/handler/v1"
	"github.com/medisched/medisched/internal/registry"
	"github.com/medisched/medisched/internal/service"
	"github.com/medisched/medisched/internal/store"
	"github.com/medisched/medisched/pkg/ident"
	"github.com/medisched/medisched/pkg/logger"
	"github.com/medisched/medisched/pkg/metrics"
	"github.com/medisched/medisched/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "medisched: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
		zap.String("data_dir", cfg.Data.Dir))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Registry files are optional; a missing or broken registry means
	// an empty one, the scheduler just rejects every booking against it.
	patients, err := registry.LoadPatients(cfg.Data.PatientRegistryPath(), log)
	if err != nil {
		log.Warn("patient registry unreadable, starting empty", zap.Error(err))
		patients = &registry.Patients{}
	}
	doctors, err := registry.LoadDoctors(cfg.Data.DoctorRegistryPath(), log)
	if err != nil {
		log.Warn("doctor registry unreadable, starting empty", zap.Error(err))
		doctors = &registry.Doctors{}
	}
	medicines, err := registry.LoadMedicines(cfg.Data.MedicineRegistryPath(), log)
	if err != nil {
		log.Warn("medicine registry unreadable, starting empty", zap.Error(err))
		medicines = &registry.Medicines{}
	}
	legacy, err := registry.LoadLegacy(cfg.Data.LegacyRecordsPath(), log)
	if err != nil {
		log.Warn("legacy records unreadable, starting empty", zap.Error(err))
		legacy = &registry.Legacy{}
	}

	m := metrics.NewCollector(cfg.App.Name)
	st := store.New(cfg.Data.AppointmentLogPath(), cfg.Data.TreatmentSnapshotPath(), log)

	svc := service.NewAppointmentService(
		patients, doctors, legacy, st,
		ident.NewGenerator(ident.Base), m, log,
	)
	svc.Load()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := v1.NewRouter(svc, patients, doctors, medicines, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-rootCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
