package registry

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const legacyTimeLayout = "2006-01-02 15:04"

// Legacy holds historical consultation and treatment records. The
// scheduler consults them only for overlap detection; nothing ever
// writes them back.
type Legacy struct {
	cons  map[string][]time.Time
	treat map[string][]time.Time
}

func (l *Legacy) ConsultationStarts(doctorID string) []time.Time { return l.cons[doctorID] }
func (l *Legacy) TreatmentStarts(doctorID string) []time.Time    { return l.treat[doctorID] }

// LoadLegacy reads `doctorId,class,start` records where class is
// either consultation or treatment.
func LoadLegacy(path string, log *zap.Logger) (*Legacy, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading legacy record store: %w", err)
	}
	l := &Legacy{
		cons:  make(map[string][]time.Time),
		treat: make(map[string][]time.Time),
	}
	for i, line := range lines {
		f := strings.Split(line, ",")
		if len(f) != 3 {
			log.Warn("skipping malformed legacy record", zap.Int("line", i+1))
			continue
		}
		start, err := time.Parse(legacyTimeLayout, f[2])
		if err != nil {
			log.Warn("skipping legacy record with bad start time", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		switch f[1] {
		case "consultation":
			l.cons[f[0]] = append(l.cons[f[0]], start)
		case "treatment":
			l.treat[f[0]] = append(l.treat[f[0]], start)
		default:
			log.Warn("skipping legacy record with unknown class",
				zap.Int("line", i+1), zap.String("class", f[1]))
		}
	}
	return l, nil
}
