package distribution

import (
	"strings"

	"github.com/workforce-api/internal/domain"
)

// IsComplete reports whether a row may be persisted: it names an activity, has
// positive duration and occurrences, and a frequency
func IsComplete(d domain.Distribution) bool {
	return strings.TrimSpace(d.ActivityID) != "" &&
		sanitize(d.HoursPerOccurrence) > 0 &&
		sanitize(d.OccurrencesPerMonth) > 0 &&
		d.Frequency.IsSet()
}

// Batch is the persistable part of an edit for one employee
type Batch struct {
	EmployeeID string                `json:"employee_id"`
	Rows       []domain.Distribution `json:"rows"`
	// Incomplete counts rows left out because they were missing data
	Incomplete int `json:"incomplete"`
}

// PrepareBatch normalizes rows for employeeID: numbers are floored at zero,
// incomplete rows are counted and left out, and when an activity appears more
// than once the last occurrence wins.
func PrepareBatch(employeeID string, rows []domain.Distribution) Batch {
	b := Batch{EmployeeID: strings.TrimSpace(employeeID)}

	index := make(map[string]int, len(rows))
	for _, d := range rows {
		d = normalize(b.EmployeeID, d)
		if !IsComplete(d) {
			b.Incomplete++
			continue
		}
		if i, ok := index[d.ActivityID]; ok {
			b.Rows[i] = d
			continue
		}
		index[d.ActivityID] = len(b.Rows)
		b.Rows = append(b.Rows, d)
	}
	return b
}

func normalize(employeeID string, d domain.Distribution) domain.Distribution {
	return domain.Distribution{
		EmployeeID:          employeeID,
		ActivityID:          strings.TrimSpace(d.ActivityID),
		Frequency:           d.Frequency,
		HoursPerOccurrence:  sanitize(d.HoursPerOccurrence),
		OccurrencesPerMonth: sanitize(d.OccurrencesPerMonth),
	}
}
