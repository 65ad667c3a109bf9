package hierarchy

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/workforce-api/internal/domain"
)

// NoDirectorate names the bucket of cost centers whose chain never reaches an area
const NoDirectorate = "No directorate"

// NoUnit names the bucket of cost centers without a unit
const NoUnit = "No unit"

// OverviewInput lists where the cost centers of an overview come from
type OverviewInput struct {
	// Scope is the set of employees visible to the viewer
	Scope []domain.Employee
	// Owned are the cost centers the viewer answers for directly
	Owned []domain.CostCenterOwner
	// ViewerID is the viewer's employee id; areas they are responsible for
	// contribute every cost center staffed under them
	ViewerID string
}

// Overview groups cost centers by unit and directorate
type Overview struct {
	Units []UnitOverview `json:"units"`
}

// UnitOverview is one unit (facility) of an overview
type UnitOverview struct {
	Unit         string                `json:"unit"`
	Directorates []DirectorateOverview `json:"directorates"`
}

// DirectorateOverview is one directorate inside a unit
type DirectorateOverview struct {
	Name        string           `json:"name"`
	AreaID      *int64           `json:"area_id,omitempty"`
	Director    *domain.Employee `json:"director,omitempty"`
	CostCenters []string         `json:"cost_centers"`
}

type directorateBucket struct {
	areaID   *int64
	director *domain.Employee
	centers  map[string]struct{}
}

// BuildOverview groups the cost centers related to a viewer by unit, then by
// directorate. Directorates, owned cost centers and led areas are looked up in
// the resolver's snapshot, which should hold the whole organization even when
// in.Scope is narrower.
// Within a unit the "no directorate" bucket is dropped whenever another
// directorate exists.
func (r *Resolver) BuildOverview(in OverviewInput) Overview {
	units := make(map[string]map[string]*directorateBucket)

	add := func(unit, costCenter string, d Directorate) {
		if unit == "" {
			unit = NoUnit
		}
		name := NoDirectorate
		var areaID *int64
		if d.Area != nil {
			name = d.Area.Name
			id := d.Area.ID
			areaID = &id
		}

		dirs, ok := units[unit]
		if !ok {
			dirs = make(map[string]*directorateBucket)
			units[unit] = dirs
		}
		b, ok := dirs[name]
		if !ok {
			b = &directorateBucket{areaID: areaID, centers: make(map[string]struct{})}
			dirs[name] = b
		}
		b.centers[costCenter] = struct{}{}
		if b.director == nil && d.Responsible != nil {
			b.director = d.Responsible
		}
	}

	for _, e := range in.Scope {
		if e.Unit == "" || e.CostCenter == "" {
			continue
		}
		add(e.Unit, e.CostCenter, r.ResolveDirectorate(e.ID))
	}

	for _, owned := range in.Owned {
		var d Directorate
		if member, ok := r.findByCostCenter(owned.Unit, owned.CostCenter); ok {
			d = r.ResolveDirectorate(member.ID)
		}
		add(owned.Unit, owned.CostCenter, d)
	}

	if led := r.areasLedBy(in.ViewerID); len(led) > 0 {
		for _, e := range r.snapshot.Employees() {
			if e.Unit == "" || e.CostCenter == "" || e.AreaID == nil {
				continue
			}
			if _, ok := led[*e.AreaID]; !ok {
				continue
			}
			add(e.Unit, e.CostCenter, r.ResolveDirectorate(e.ID))
		}
	}

	return r.flattenOverview(units)
}

func (r *Resolver) flattenOverview(units map[string]map[string]*directorateBucket) Overview {
	c := collate.New(r.locale, collate.IgnoreCase)
	out := Overview{Units: []UnitOverview{}}

	for unit, dirs := range units {
		hasNamed := false
		for name := range dirs {
			if name != NoDirectorate {
				hasNamed = true
				break
			}
		}

		u := UnitOverview{Unit: unit}
		for name, b := range dirs {
			if hasNamed && name == NoDirectorate {
				continue
			}
			centers := make([]string, 0, len(b.centers))
			for cc := range b.centers {
				centers = append(centers, cc)
			}
			slices.SortFunc(centers, c.CompareString)
			u.Directorates = append(u.Directorates, DirectorateOverview{
				Name:        name,
				AreaID:      b.areaID,
				Director:    b.director,
				CostCenters: centers,
			})
		}
		slices.SortFunc(u.Directorates, func(a, b DirectorateOverview) int {
			return c.CompareString(a.Name, b.Name)
		})
		out.Units = append(out.Units, u)
	}

	slices.SortFunc(out.Units, func(a, b UnitOverview) int {
		return c.CompareString(a.Unit, b.Unit)
	})
	return out
}

// findByCostCenter returns any employee staffed in the given unit and cost center
func (r *Resolver) findByCostCenter(unit, costCenter string) (domain.Employee, bool) {
	unit, costCenter = normalize(unit), normalize(costCenter)
	for _, e := range r.snapshot.Employees() {
		if normalize(e.Unit) == unit && normalize(e.CostCenter) == costCenter {
			return e, true
		}
	}
	return domain.Employee{}, false
}

func (r *Resolver) areasLedBy(employeeID string) map[int64]struct{} {
	if employeeID == "" {
		return nil
	}
	led := make(map[int64]struct{})
	for id, a := range r.areas {
		if a.ResponsibleID != nil && *a.ResponsibleID == employeeID {
			led[id] = struct{}{}
		}
	}
	return led
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
