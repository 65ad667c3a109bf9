package distribution

import "github.com/workforce-api/internal/domain"

// Line is one distribution row as shown to a user
type Line struct {
	domain.Distribution
	ActivityName string  `json:"activity_name"`
	TotalHours   float64 `json:"total_hours"`
	Complete     bool    `json:"complete"`
}

// Summary is the utilization view of one employee
type Summary struct {
	Employee       domain.Employee `json:"employee"`
	Capacity       float64         `json:"capacity_hours"`
	AllocatedHours float64         `json:"allocated_hours"`
	Idleness
	Utilization float64   `json:"utilization_percent"`
	Lines       []Line    `json:"lines"`
	Warnings    []Warning `json:"warnings"`
}

// Summarize builds the utilization view of e over rows, which should all belong to e
func Summarize(e domain.Employee, rows []domain.Distribution, names map[string]string) Summary {
	capacity := e.CapacityHours()
	total := TotalMonthlyHours(rows)

	lines := make([]Line, len(rows))
	for i, d := range rows {
		lines[i] = Line{
			Distribution: d,
			ActivityName: names[d.ActivityID],
			TotalHours:   rowHours(d),
			Complete:     IsComplete(d),
		}
	}

	warnings := FlagInconsistencies(rows, capacity, names)
	if warnings == nil {
		warnings = []Warning{}
	}

	return Summary{
		Employee:       e,
		Capacity:       capacity,
		AllocatedHours: total,
		Idleness:       ComputeIdleness(capacity, total),
		Utilization:    Utilization(capacity, total),
		Lines:          lines,
		Warnings:       warnings,
	}
}

// GroupByEmployee splits rows per employee id, keeping input order
func GroupByEmployee(rows []domain.Distribution) map[string][]domain.Distribution {
	out := make(map[string][]domain.Distribution)
	for _, d := range rows {
		out[d.EmployeeID] = append(out[d.EmployeeID], d)
	}
	return out
}
