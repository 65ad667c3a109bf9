// Package hierarchy answers structural questions about the reports-to tree over an
// in-memory employee snapshot. Every walk is guarded by a visited set, so cycles in
// the stored data end a walk instead of looping.
package hierarchy

import "github.com/workforce-api/internal/domain"

// Snapshot is an immutable index over a flat list of employees
type Snapshot struct {
	order    []string
	byID     map[string]domain.Employee
	children map[string][]string
}

// NewSnapshot indexes employees. The first record wins when ids repeat.
func NewSnapshot(employees []domain.Employee) *Snapshot {
	s := &Snapshot{
		order:    make([]string, 0, len(employees)),
		byID:     make(map[string]domain.Employee, len(employees)),
		children: make(map[string][]string),
	}
	for _, e := range employees {
		if e.ID == "" {
			continue
		}
		if _, dup := s.byID[e.ID]; dup {
			continue
		}
		s.byID[e.ID] = e
		s.order = append(s.order, e.ID)
		if e.ReportsTo != nil && *e.ReportsTo != e.ID {
			s.children[*e.ReportsTo] = append(s.children[*e.ReportsTo], e.ID)
		}
	}
	return s
}

// Get returns the employee with id
func (s *Snapshot) Get(id string) (domain.Employee, bool) {
	if s == nil {
		return domain.Employee{}, false
	}
	e, ok := s.byID[id]
	return e, ok
}

// Len returns the number of indexed employees
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Employees returns the indexed employees in input order
func (s *Snapshot) Employees() []domain.Employee {
	if s == nil {
		return nil
	}
	out := make([]domain.Employee, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// reportIDs returns the ids of employees reporting directly to id, never id itself
func (s *Snapshot) reportIDs(id string) []string {
	if s == nil {
		return nil
	}
	return s.children[id]
}

// manager returns the employee e reports to, if it resolves and is not e itself
func (s *Snapshot) manager(e domain.Employee) (domain.Employee, bool) {
	if e.ReportsTo == nil || *e.ReportsTo == e.ID {
		return domain.Employee{}, false
	}
	return s.Get(*e.ReportsTo)
}
