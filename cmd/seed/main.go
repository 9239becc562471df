// Command seed writes sample registry files into the data directory so
// a fresh installation has doctors, patients, pharmacy stock, and a few
// legacy records to book against.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/medisched/medisched/config"
	"github.com/medisched/medisched/internal/domain/duty"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	doctorCount := flag.Int("doctors", 8, "number of doctors to generate")
	patientCount := flag.Int("patients", 50, "number of patients to generate")
	medicineCount := flag.Int("medicines", 30, "number of medicines to generate")
	legacyCount := flag.Int("legacy", 20, "number of legacy records to generate")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("creating data directory: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs := seedDoctors(cfg.Data.DoctorRegistryPath(), *doctorCount)
	seedPatients(cfg.Data.PatientRegistryPath(), *patientCount)
	seedMedicines(cfg.Data.MedicineRegistryPath(), *medicineCount)
	seedLegacy(cfg.Data.LegacyRecordsPath(), doctorIDs, *legacyCount)

	log.Println("seed complete")
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var workingShifts = []duty.Shift{duty.ShiftMorning, duty.ShiftAfternoon, duty.ShiftNight}

var medicineNames = []string{
	"Paracetamol 500mg",
	"Ibuprofen 200mg",
	"Amoxicillin 250mg",
	"Omeprazole 20mg",
	"Cetirizine 10mg",
	"Metformin 500mg",
	"Amlodipine 5mg",
	"Salbutamol inhaler",
	"Loratadine 10mg",
	"Azithromycin 500mg",
}

func seedDoctors(path string, count int) []string {
	log.Printf("seeding %d doctors", count)

	var b strings.Builder
	b.WriteString("# id,name,specialty,mon,tue,wed,thu,fri,sat,sun\n")

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("D%03d", i+1)
		ids = append(ids, id)

		roster := make([]string, 7)
		for day := range roster {
			// Weekends are mostly off.
			if day >= 5 && gofakeit.Number(0, 2) != 0 {
				roster[day] = string(duty.ShiftRest)
				continue
			}
			roster[day] = string(workingShifts[gofakeit.Number(0, len(workingShifts)-1)])
		}

		fmt.Fprintf(&b, "%s,Dr %s,%s,%s\n",
			id, gofakeit.Name(),
			specialties[gofakeit.Number(0, len(specialties)-1)],
			strings.Join(roster, ","))
	}

	writeFile(path, b.String())
	return ids
}

func seedPatients(path string, count int) {
	log.Printf("seeding %d patients", count)

	var b strings.Builder
	b.WriteString("# id,name,gender,dateOfBirth,phone\n")

	genders := []string{"male", "female"}
	for i := 0; i < count; i++ {
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		fmt.Fprintf(&b, "P%03d,%s,%s,%s,%s\n",
			i+1, gofakeit.Name(),
			genders[gofakeit.Number(0, 1)],
			dob.Format("2006-01-02"),
			gofakeit.Phone())
	}

	writeFile(path, b.String())
}

func seedMedicines(path string, count int) {
	log.Printf("seeding %d medicines", count)

	var b strings.Builder
	b.WriteString("# id,name,unitPrice,stock\n")

	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "M%03d,%s,%.2f,%d\n",
			i+1,
			medicineNames[gofakeit.Number(0, len(medicineNames)-1)],
			gofakeit.Float64Range(1, 250),
			gofakeit.Number(0, 500))
	}

	writeFile(path, b.String())
}

func seedLegacy(path string, doctorIDs []string, count int) {
	log.Printf("seeding %d legacy records", count)

	var b strings.Builder
	b.WriteString("# doctorId,class,start\n")

	classes := []string{"consultation", "treatment"}
	now := time.Now()
	for i := 0; i < count; i++ {
		start := gofakeit.DateRange(now.AddDate(0, -6, 0), now).Truncate(time.Hour)
		fmt.Fprintf(&b, "%s,%s,%s\n",
			doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)],
			classes[gofakeit.Number(0, 1)],
			start.Format("2006-01-02 15:04"))
	}

	writeFile(path, b.String())
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatalf("writing %s: %v", filepath.Base(path), err)
	}
	log.Printf("wrote %s", path)
}
