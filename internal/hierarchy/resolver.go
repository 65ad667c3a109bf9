package hierarchy

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/workforce-api/internal/domain"
)

// DefaultLocale orders names when no locale is configured
var DefaultLocale = language.BrazilianPortuguese

// Directorate is the area an employee falls under and the person responsible for it.
// Both fields are nil when no area resolves.
type Directorate struct {
	Area        *domain.Area     `json:"area"`
	Responsible *domain.Employee `json:"responsible"`
}

// Chain is the line of command above an employee
type Chain struct {
	// Managers are nearest first
	Managers []domain.Employee `json:"managers"`
	// Top is the last manager reached, or the employee itself when it has none
	Top domain.Employee `json:"top"`
}

// Resolver answers hierarchy questions over one snapshot
type Resolver struct {
	snapshot      *Snapshot
	supplementary *Snapshot
	areas         map[int64]domain.Area
	locale        language.Tag
}

// Option configures a Resolver
type Option func(*Resolver)

// WithSupplementary adds employees consulted only when an area's responsible
// party is missing from the primary snapshot
func WithSupplementary(s *Snapshot) Option {
	return func(r *Resolver) { r.supplementary = s }
}

// WithLocale sets the collation used to order names
func WithLocale(tag language.Tag) Option {
	return func(r *Resolver) { r.locale = tag }
}

// NewResolver creates a resolver over snapshot and areas
func NewResolver(snapshot *Snapshot, areas []domain.Area, opts ...Option) *Resolver {
	if snapshot == nil {
		snapshot = NewSnapshot(nil)
	}
	r := &Resolver{
		snapshot: snapshot,
		areas:    make(map[int64]domain.Area, len(areas)),
		locale:   DefaultLocale,
	}
	for _, a := range areas {
		r.areas[a.ID] = a
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the primary snapshot
func (r *Resolver) Snapshot() *Snapshot {
	return r.snapshot
}

// Area returns the area with id
func (r *Resolver) Area(id int64) (domain.Area, bool) {
	a, ok := r.areas[id]
	return a, ok
}

// DirectReports returns everyone reporting directly to id, never id itself.
// People with more direct reports of their own come first, then names in
// locale order, case-insensitively.
func (r *Resolver) DirectReports(id string) []domain.Employee {
	ids := r.snapshot.reportIDs(id)
	out := make([]domain.Employee, 0, len(ids))
	for _, rid := range ids {
		if e, ok := r.snapshot.Get(rid); ok {
			out = append(out, e)
		}
	}
	r.sortByWeight(out)
	return out
}

// ReportCount returns how many people report directly to id
func (r *Resolver) ReportCount(id string) int {
	return len(r.snapshot.reportIDs(id))
}

func (r *Resolver) sortByWeight(employees []domain.Employee) {
	c := collate.New(r.locale, collate.IgnoreCase)
	slices.SortStableFunc(employees, func(a, b domain.Employee) int {
		if ca, cb := r.ReportCount(a.ID), r.ReportCount(b.ID); ca != cb {
			return cb - ca
		}
		return c.CompareString(a.Name, b.Name)
	})
}

// ManagerOf returns the employee id reports to. A self-reference has no manager.
func (r *Resolver) ManagerOf(id string) (domain.Employee, bool) {
	e, ok := r.snapshot.Get(id)
	if !ok {
		return domain.Employee{}, false
	}
	return r.snapshot.manager(e)
}

// ResolveDirectorate walks up from id, inclusive, and returns the first area
// that resolves along the way together with its responsible party. The
// responsible party is looked up in the primary snapshot first, then in the
// supplementary one.
func (r *Resolver) ResolveDirectorate(id string) Directorate {
	current, ok := r.snapshot.Get(id)
	visited := make(map[string]struct{})

	for ok {
		if _, seen := visited[current.ID]; seen {
			return Directorate{}
		}
		visited[current.ID] = struct{}{}

		if current.AreaID != nil {
			if area, found := r.areas[*current.AreaID]; found {
				return Directorate{Area: &area, Responsible: r.responsibleFor(area)}
			}
		}
		current, ok = r.snapshot.manager(current)
	}
	return Directorate{}
}

func (r *Resolver) responsibleFor(area domain.Area) *domain.Employee {
	if area.ResponsibleID == nil {
		return nil
	}
	if e, ok := r.snapshot.Get(*area.ResponsibleID); ok {
		return &e
	}
	if e, ok := r.supplementary.Get(*area.ResponsibleID); ok {
		return &e
	}
	return nil
}

// TopOfChain follows managers from id until none resolves and returns the last
// node reached. A cycle ends the walk at the node that closes it. The second
// result is false when id itself is unknown.
func (r *Resolver) TopOfChain(id string) (domain.Employee, bool) {
	current, ok := r.snapshot.Get(id)
	if !ok {
		return domain.Employee{}, false
	}

	visited := map[string]struct{}{current.ID: {}}
	for {
		next, ok := r.snapshot.manager(current)
		if !ok {
			return current, true
		}
		if _, seen := visited[next.ID]; seen {
			return current, true
		}
		visited[next.ID] = struct{}{}
		current = next
	}
}

// ChainOfCommand returns the managers above id, nearest first
func (r *Resolver) ChainOfCommand(id string) []domain.Employee {
	current, ok := r.snapshot.Get(id)
	if !ok {
		return nil
	}

	var chain []domain.Employee
	visited := map[string]struct{}{current.ID: {}}
	for {
		next, ok := r.snapshot.manager(current)
		if !ok {
			return chain
		}
		if _, seen := visited[next.ID]; seen {
			return chain
		}
		visited[next.ID] = struct{}{}
		chain = append(chain, next)
		current = next
	}
}

// Subordinates returns the ids of everyone below id at any depth, excluding id.
// Ids are in breadth-first order.
func (r *Resolver) Subordinates(id string) []string {
	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	var out []string

	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]
		for _, child := range r.snapshot.reportIDs(head) {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}
