package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App     AppConfig
	Server  ServerConfig
	Data    DataConfig
	Log     LogConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig locates the line-oriented data files. Everything lives
// under Dir; the individual names are overridable for tests and
// migrations.
type DataConfig struct {
	Dir               string
	AppointmentLog    string
	TreatmentSnapshot string
	PatientRegistry   string
	DoctorRegistry    string
	MedicineRegistry  string
	LegacyRecords     string
}

func (d DataConfig) AppointmentLogPath() string    { return filepath.Join(d.Dir, d.AppointmentLog) }
func (d DataConfig) TreatmentSnapshotPath() string { return filepath.Join(d.Dir, d.TreatmentSnapshot) }
func (d DataConfig) PatientRegistryPath() string   { return filepath.Join(d.Dir, d.PatientRegistry) }
func (d DataConfig) DoctorRegistryPath() string    { return filepath.Join(d.Dir, d.DoctorRegistry) }
func (d DataConfig) MedicineRegistryPath() string  { return filepath.Join(d.Dir, d.MedicineRegistry) }
func (d DataConfig) LegacyRecordsPath() string     { return filepath.Join(d.Dir, d.LegacyRecords) }

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "medisched"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			Dir:               getEnv("DATA_DIR", "data"),
			AppointmentLog:    getEnv("DATA_APPOINTMENT_LOG", "appointments.log"),
			TreatmentSnapshot: getEnv("DATA_TREATMENT_SNAPSHOT", "treatment_queue.log"),
			PatientRegistry:   getEnv("DATA_PATIENTS", "patients.csv"),
			DoctorRegistry:    getEnv("DATA_DOCTORS", "doctors.csv"),
			MedicineRegistry:  getEnv("DATA_MEDICINES", "medicines.csv"),
			LegacyRecords:     getEnv("DATA_LEGACY_RECORDS", "legacy_records.csv"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "medisched"),
			Endpoint:    getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Data.Dir == "" {
		errs = append(errs, "DATA_DIR must not be empty")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "SERVER_PORT must be a valid TCP port")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, "TRACING_ENDPOINT is required when tracing is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
