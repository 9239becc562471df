package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/registry"
	"github.com/medisched/medisched/internal/service"
	"github.com/medisched/medisched/internal/store"
	"github.com/medisched/medisched/pkg/ident"
	"github.com/medisched/medisched/pkg/metrics"
)

var testMetrics = metrics.NewCollector("medisched_handler_test")

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	// 2026-08-24 is a Monday.
	patientsPath := write("patients.csv",
		"# id,name,gender,dateOfBirth,phone\n"+
			"P001,Ana Obi,female,1990-04-02,555-0101\n"+
			"P002,Bo Tan,male,1985-11-20,555-0102\n")
	doctorsPath := write("doctors.csv",
		"# id,name,specialty,mon,tue,wed,thu,fri,sat,sun\n"+
			"D001,Dr Lee,General Practice,morning,morning,morning,morning,morning,rest,rest\n")
	medicinesPath := write("medicines.csv",
		"# id,name,unitPrice,stock\n"+
			"M001,Paracetamol,4.50,200\n")

	log := zap.NewNop()
	patients, err := registry.LoadPatients(patientsPath, log)
	if err != nil {
		t.Fatalf("LoadPatients: %v", err)
	}
	doctors, err := registry.LoadDoctors(doctorsPath, log)
	if err != nil {
		t.Fatalf("LoadDoctors: %v", err)
	}
	medicines, err := registry.LoadMedicines(medicinesPath, log)
	if err != nil {
		t.Fatalf("LoadMedicines: %v", err)
	}
	legacy, err := registry.LoadLegacy(filepath.Join(dir, "legacy_records.csv"), log)
	if err != nil {
		t.Fatalf("LoadLegacy: %v", err)
	}

	st := store.New(
		filepath.Join(dir, "appointments.log"),
		filepath.Join(dir, "treatment_queue.log"),
		log,
	)
	svc := service.NewAppointmentService(patients, doctors, legacy, st, ident.NewGenerator(ident.Base), testMetrics, log)
	svc.Load()

	return NewRouter(svc, patients, doctors, medicines, testMetrics, log)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/appointments", gin.H{
		"patientId":     "P001",
		"doctorId":      "D001",
		"scheduledTime": "2026-08-24 09:00",
		"type":          "online",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if data["status"] != "booked" {
		t.Fatalf("status=%v", data["status"])
	}
	id := int64(data["id"].(float64))

	// Same doctor, overlapping slot.
	w = do(t, r, http.MethodPost, "/api/v1/appointments", gin.H{
		"patientId":     "P002",
		"doctorId":      "D001",
		"scheduledTime": "2026-08-24 09:30",
		"type":          "online",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("conflict status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/check-in", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check-in status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/v1/queue/call-next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("call-next status=%d body=%s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["status"] != "consulting" {
		t.Fatalf("called status=%v", data["status"])
	}

	// A second call while one is active.
	w = do(t, r, http.MethodPost, "/api/v1/queue/call-next", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second call-next status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/consultation", id), gin.H{
		"symptoms":        "fever",
		"diagnosis":       "flu",
		"treatmentNeeded": true,
		"medicineNeeded":  false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("consultation status=%d body=%s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["status"] != "treatment" {
		t.Fatalf("status after consultation=%v", data["status"])
	}

	w = do(t, r, http.MethodGet, "/api/v1/queue", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("queue status=%d", w.Code)
	}
	data = decodeData(t, w)
	treatment, _ := data["treatment"].([]any)
	if len(treatment) != 1 {
		t.Fatalf("treatment queue = %v", data["treatment"])
	}
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown appointment", http.MethodGet, "/api/v1/appointments/9999", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/appointments/abc", nil, http.StatusBadRequest},
		{"unknown patient", http.MethodPost, "/api/v1/appointments", gin.H{
			"patientId": "ghost", "doctorId": "D001",
			"scheduledTime": "2026-08-24 09:00", "type": "online",
		}, http.StatusNotFound},
		{"off duty", http.MethodPost, "/api/v1/appointments", gin.H{
			"patientId": "P001", "doctorId": "D001",
			"scheduledTime": "2026-08-29 09:00", "type": "online",
		}, http.StatusConflict},
		{"bad type", http.MethodPost, "/api/v1/appointments", gin.H{
			"patientId": "P001", "doctorId": "D001",
			"scheduledTime": "2026-08-24 09:00", "type": "telepathic",
		}, http.StatusBadRequest},
		{"empty queue", http.MethodPost, "/api/v1/queue/call-next", nil, http.StatusNotFound},
		{"missing search params", http.MethodGet, "/api/v1/appointments/search", nil, http.StatusBadRequest},
		{"unknown patient record", http.MethodGet, "/api/v1/patients/ghost", nil, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, tc.method, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestDoctorAvailabilityEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/doctors/D001/availability?time=2026-08-24+09:00", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["available"] != true {
		t.Fatalf("available=%v", data["available"])
	}

	// Saturday is a rest day.
	w = do(t, r, http.MethodGet, "/api/v1/doctors/D001/availability?time=2026-08-29+09:00", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["available"] != false {
		t.Fatalf("available=%v on a rest day", data["available"])
	}
}

func TestHealthAndRegistries(t *testing.T) {
	r := newTestRouter(t)

	if w := do(t, r, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	w := do(t, r, http.MethodGet, "/api/v1/doctors", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("doctors status=%d", w.Code)
	}
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding doctors: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0]["id"] != "D001" {
		t.Fatalf("doctors = %v", resp.Data)
	}

	w = do(t, r, http.MethodGet, "/api/v1/medicines", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("medicines status=%d", w.Code)
	}
}
