package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/duty"
	"github.com/medisched/medisched/internal/domain/patient"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPatients(t *testing.T) {
	path := writeFile(t, "patients.csv", `# id,name,gender,dateOfBirth,phone
p1,Ana Obi,female,1990-04-12,555-0101
bad line
p2,Bo Tan,martian,1985-01-30,555-0102
`)
	r, err := LoadPatients(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadPatients: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("loaded %d patients, want 2", r.Len())
	}
	p, ok := r.GetByID("p1")
	if !ok || p.Name != "Ana Obi" || p.Gender != patient.GenderFemale {
		t.Fatalf("p1 = %+v ok=%v", p, ok)
	}
	// Unknown gender degrades to unknown rather than dropping the row.
	if p2, _ := r.GetByID("p2"); p2.Gender != patient.GenderUnknown {
		t.Fatalf("p2 gender = %q", p2.Gender)
	}
}

func TestLoadDoctorsBuildsCalendar(t *testing.T) {
	path := writeFile(t, "doctors.csv",
		"d1,Dr Lee,General Practice,morning,afternoon,rest,night,morning,rest,rest\n")
	r, err := LoadDoctors(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadDoctors: %v", err)
	}
	d, ok := r.GetByID("d1")
	if !ok {
		t.Fatal("d1 missing")
	}
	cases := map[time.Weekday]duty.Shift{
		time.Monday:    duty.ShiftMorning,
		time.Tuesday:   duty.ShiftAfternoon,
		time.Wednesday: duty.ShiftRest,
		time.Thursday:  duty.ShiftNight,
		time.Friday:    duty.ShiftMorning,
		time.Sunday:    duty.ShiftRest,
	}
	for day, want := range cases {
		if got := d.Duty.ShiftFor(day); got != want {
			t.Errorf("%v: shift=%q, want %q", day, got, want)
		}
	}
	if all := r.All(); len(all) != 1 || all[0].ID != "d1" {
		t.Fatalf("All() = %v", all)
	}
}

func TestLoadMissingRegistriesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.csv")

	if r, err := LoadPatients(missing, zap.NewNop()); err != nil || r.Len() != 0 {
		t.Fatalf("patients: %v, len=%d", err, r.Len())
	}
	if r, err := LoadDoctors(missing, zap.NewNop()); err != nil || len(r.All()) != 0 {
		t.Fatalf("doctors: %v", err)
	}
	if r, err := LoadMedicines(missing, zap.NewNop()); err != nil || r.Len() != 0 {
		t.Fatalf("medicines: %v", err)
	}
	if l, err := LoadLegacy(missing, zap.NewNop()); err != nil || len(l.ConsultationStarts("d1")) != 0 {
		t.Fatalf("legacy: %v", err)
	}
}

func TestLoadMedicines(t *testing.T) {
	path := writeFile(t, "medicines.csv", `m1,Paracetamol 500mg,0.35,400
m2,Amoxicillin,not-a-price,10
`)
	r, err := LoadMedicines(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadMedicines: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("loaded %d medicines, want 1", r.Len())
	}
	m, _ := r.GetByID("m1")
	if m.UnitPrice != 0.35 || m.Stock != 400 {
		t.Fatalf("m1 = %+v", m)
	}
}

func TestLoadLegacy(t *testing.T) {
	path := writeFile(t, "legacy.csv", `d1,consultation,2026-08-24 08:00
d1,treatment,2026-08-24 09:00
d2,consultation,2026-08-24 10:00
d1,surgery,2026-08-24 11:00
`)
	l, err := LoadLegacy(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadLegacy: %v", err)
	}
	if got := l.ConsultationStarts("d1"); len(got) != 1 {
		t.Fatalf("d1 consultations = %v", got)
	}
	if got := l.TreatmentStarts("d1"); len(got) != 1 {
		t.Fatalf("d1 treatments = %v", got)
	}
	if got := l.ConsultationStarts("d2"); len(got) != 1 {
		t.Fatalf("d2 consultations = %v", got)
	}
}
