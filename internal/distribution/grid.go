package distribution

import (
	"slices"

	"github.com/workforce-api/internal/domain"
)

// Grid is an editable draft of distribution rows for several employees. It
// records which employees have edits that are not yet persisted.
// A Grid is not safe for concurrent use.
type Grid struct {
	rows  map[string][]domain.Distribution
	dirty map[string]struct{}
}

// NewGrid starts a clean draft from persisted rows
func NewGrid(rows []domain.Distribution) *Grid {
	g := &Grid{
		rows:  GroupByEmployee(rows),
		dirty: make(map[string]struct{}),
	}
	return g
}

// Rows returns a copy of the draft rows of employeeID
func (g *Grid) Rows(employeeID string) []domain.Distribution {
	return slices.Clone(g.rows[employeeID])
}

// Set merges d into the draft of employeeID, replacing the row of the same activity
func (g *Grid) Set(employeeID string, d domain.Distribution) {
	d.EmployeeID = employeeID
	rows := g.rows[employeeID]
	if i := indexOf(rows, d.ActivityID); i >= 0 {
		rows[i] = d
	} else {
		rows = append(rows, d)
	}
	g.rows[employeeID] = rows
	g.dirty[employeeID] = struct{}{}
}

// CopyFrom replaces the drafts of targets with the complete rows of source.
// The source itself is never a target.
func (g *Grid) CopyFrom(source string, targets []string) {
	var complete []domain.Distribution
	for _, d := range g.rows[source] {
		if IsComplete(d) {
			complete = append(complete, d)
		}
	}

	for _, target := range targets {
		if target == source {
			continue
		}
		rows := make([]domain.Distribution, len(complete))
		for i, d := range complete {
			d.EmployeeID = target
			rows[i] = d
		}
		g.rows[target] = rows
		g.dirty[target] = struct{}{}
	}
}

// FillRemaining assigns each employee's unallocated capacity to activityID as
// a single monthly occurrence. If the employee already has that activity, its
// row absorbs the remainder. Employees without capacity or without a remainder
// are left untouched. It returns the ids that changed.
func (g *Grid) FillRemaining(capacities map[string]float64, employeeIDs []string, activityID string) []string {
	var changed []string
	for _, id := range employeeIDs {
		capacity := capacities[id]
		if capacity <= 0 {
			continue
		}
		rows := g.rows[id]
		remaining := capacity - TotalMonthlyHours(rows)
		if remaining <= 0 {
			continue
		}

		hours := remaining
		if i := indexOf(rows, activityID); i >= 0 {
			hours += rowHours(rows[i])
		}
		g.Set(id, domain.Distribution{
			ActivityID:          activityID,
			Frequency:           domain.FrequencyMonthly,
			HoursPerOccurrence:  hours,
			OccurrencesPerMonth: 1,
		})
		changed = append(changed, id)
	}
	return changed
}

// Clear empties the drafts of employeeIDs. The caller is expected to have
// removed the persisted rows too, so the employees are no longer dirty.
func (g *Grid) Clear(employeeIDs ...string) {
	for _, id := range employeeIDs {
		g.rows[id] = nil
		delete(g.dirty, id)
	}
}

// Dirty returns the employees with unsaved edits, sorted
func (g *Grid) Dirty() []string {
	out := make([]string, 0, len(g.dirty))
	for id := range g.dirty {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MarkSaved clears the dirty flag of employeeID
func (g *Grid) MarkSaved(employeeID string) {
	delete(g.dirty, employeeID)
}

func indexOf(rows []domain.Distribution, activityID string) int {
	return slices.IndexFunc(rows, func(d domain.Distribution) bool {
		return d.ActivityID == activityID
	})
}
