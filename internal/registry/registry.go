// Package registry provides the file-backed collaborator registries
// the appointment core reads through narrow interfaces: patients,
// doctors (with their duty calendars), pharmacy stock, and the legacy
// record store consulted for overlap detection.
//
// Registries share the texture of the appointment log: one record per
// line, comma-delimited, `#` comments and malformed lines skipped. A
// missing file is an empty registry, never an error.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medisched/medisched/internal/domain/doctor"
	"github.com/medisched/medisched/internal/domain/duty"
	"github.com/medisched/medisched/internal/domain/medicine"
	"github.com/medisched/medisched/internal/domain/patient"
)

const dateLayout = "2006-01-02"

// readLines returns the data lines of a registry file.
func readLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// Patients is the keyed patient registry.
type Patients struct {
	byID map[string]*patient.Patient
}

func (r *Patients) GetByID(id string) (*patient.Patient, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Patients) Len() int { return len(r.byID) }

// LoadPatients reads `id,name,gender,dateOfBirth,phone` records.
func LoadPatients(path string, log *zap.Logger) (*Patients, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading patient registry: %w", err)
	}
	r := &Patients{byID: make(map[string]*patient.Patient, len(lines))}
	for i, line := range lines {
		f := strings.Split(line, ",")
		if len(f) != 5 {
			log.Warn("skipping malformed patient record", zap.Int("line", i+1))
			continue
		}
		dob, err := time.Parse(dateLayout, f[3])
		if err != nil {
			log.Warn("skipping patient with bad date of birth", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		g := patient.Gender(f[2])
		if !g.IsValid() {
			g = patient.GenderUnknown
		}
		r.byID[f[0]] = &patient.Patient{
			ID: f[0], Name: f[1], Gender: g, DateOfBirth: dob, Phone: f[4],
		}
	}
	return r, nil
}

// Doctors is the keyed doctor registry; each record carries the
// doctor's weekly duty roster.
type Doctors struct {
	byID  map[string]*doctor.Doctor
	order []*doctor.Doctor
}

func (r *Doctors) GetByID(id string) (*doctor.Doctor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns the doctors in registry file order.
func (r *Doctors) All() []*doctor.Doctor {
	out := make([]*doctor.Doctor, len(r.order))
	copy(out, r.order)
	return out
}

// Monday-first, matching the registry file column order.
var rosterDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// LoadDoctors reads `id,name,specialty,mon,...,sun` records where the
// seven trailing fields are shift names. Unknown shift names fall back
// to rest.
func LoadDoctors(path string, log *zap.Logger) (*Doctors, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading doctor registry: %w", err)
	}
	r := &Doctors{byID: make(map[string]*doctor.Doctor, len(lines))}
	for i, line := range lines {
		f := strings.Split(line, ",")
		if len(f) != 3+len(rosterDays) {
			log.Warn("skipping malformed doctor record", zap.Int("line", i+1))
			continue
		}
		d := doctor.New(f[0], f[1], f[2])
		for j, day := range rosterDays {
			s := duty.Shift(f[3+j])
			if !s.IsValid() {
				log.Warn("unknown shift in doctor roster, defaulting to rest",
					zap.String("doctor_id", d.ID), zap.String("shift", string(s)))
				s = duty.ShiftRest
			}
			d.Duty.SetDay(day, s)
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d)
	}
	return r, nil
}

// Medicines is the keyed pharmacy stock registry.
type Medicines struct {
	byID map[string]*medicine.Medicine
}

func (r *Medicines) GetByID(id string) (*medicine.Medicine, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func (r *Medicines) Len() int { return len(r.byID) }

// All returns the stock sorted by medicine id.
func (r *Medicines) All() []*medicine.Medicine {
	out := make([]*medicine.Medicine, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadMedicines reads `id,name,unitPrice,stock` records.
func LoadMedicines(path string, log *zap.Logger) (*Medicines, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading medicine registry: %w", err)
	}
	r := &Medicines{byID: make(map[string]*medicine.Medicine, len(lines))}
	for i, line := range lines {
		f := strings.Split(line, ",")
		if len(f) != 4 {
			log.Warn("skipping malformed medicine record", zap.Int("line", i+1))
			continue
		}
		price, perr := strconv.ParseFloat(f[2], 64)
		stock, serr := strconv.Atoi(f[3])
		if perr != nil || serr != nil {
			log.Warn("skipping medicine with bad numeric field", zap.Int("line", i+1))
			continue
		}
		r.byID[f[0]] = &medicine.Medicine{ID: f[0], Name: f[1], UnitPrice: price, Stock: stock}
	}
	return r, nil
}
