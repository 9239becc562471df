package patient

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Patient is a simple keyed registry record. The appointment core only
// ever reads it through a lookup by ID.
type Patient struct {
	ID          string
	Name        string
	Gender      Gender
	DateOfBirth time.Time
	Phone       string
}

func (p *Patient) DisplayName() string {
	return strings.TrimSpace(p.Name)
}

func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}
