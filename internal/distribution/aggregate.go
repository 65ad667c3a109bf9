// Package distribution turns per-(employee, activity) allocations into
// utilization figures and data-quality warnings, and prepares edited rows for
// persistence.
package distribution

import (
	"fmt"
	"math"
	"strings"

	"github.com/workforce-api/internal/domain"
)

// LowFrequencyShare is the share of capacity a low-frequency activity may take
// before it is flagged
const LowFrequencyShare = 0.6

// TotalMonthlyHours sums duration × occurrences over rows
func TotalMonthlyHours(rows []domain.Distribution) float64 {
	total := 0.0
	for _, d := range rows {
		total += rowHours(d)
	}
	return total
}

// rowHours is the monthly total of one row, zero for unusable numbers
func rowHours(d domain.Distribution) float64 {
	return sanitize(d.HoursPerOccurrence) * sanitize(d.OccurrencesPerMonth)
}

// Idleness is unallocated capacity. Hours go negative when over-allocated.
type Idleness struct {
	Hours   float64 `json:"idle_hours"`
	Percent float64 `json:"idle_percent"`
}

// ComputeIdleness returns capacity minus total. Percent is 0 when capacity is not positive.
func ComputeIdleness(capacity, total float64) Idleness {
	idle := capacity - total
	if capacity <= 0 {
		return Idleness{Hours: idle}
	}
	return Idleness{Hours: idle, Percent: idle / capacity * 100}
}

// Utilization returns total as a percentage of capacity, 0 when capacity is not positive
func Utilization(capacity, total float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return total / capacity * 100
}

// Warning flags a row whose hours are implausible for its frequency
type Warning struct {
	ActivityID   string           `json:"activity_id"`
	ActivityName string           `json:"activity_name"`
	Hours        float64          `json:"hours"`
	Frequency    domain.Frequency `json:"frequency"`
	Message      string           `json:"message"`
}

// FlagInconsistencies warns about every low-frequency row taking more than
// LowFrequencyShare of capacity. names maps activity ids to display names;
// unknown ids are shown as-is.
func FlagInconsistencies(rows []domain.Distribution, capacity float64, names map[string]string) []Warning {
	limit := capacity * LowFrequencyShare

	var warnings []Warning
	for _, d := range rows {
		if !d.Frequency.IsLowFrequency() {
			continue
		}
		total := rowHours(d)
		if total <= limit {
			continue
		}

		name, ok := names[d.ActivityID]
		if !ok || name == "" {
			name = d.ActivityID
		}
		warnings = append(warnings, Warning{
			ActivityID:   d.ActivityID,
			ActivityName: name,
			Hours:        total,
			Frequency:    d.Frequency,
			Message: fmt.Sprintf("%q takes %.1fh per month, but it is only %s.",
				name, total, strings.ToLower(string(d.Frequency))),
		})
	}
	return warnings
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
