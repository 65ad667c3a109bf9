package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-api/internal/domain"
)

func emp(id, name string, reportsTo string, areaID int64) domain.Employee {
	e := domain.Employee{ID: id, Name: name}
	if reportsTo != "" {
		e.ReportsTo = &reportsTo
	}
	if areaID != 0 {
		e.AreaID = &areaID
	}
	return e
}

func names(employees []domain.Employee) []string {
	out := make([]string, len(employees))
	for i, e := range employees {
		out[i] = e.Name
	}
	return out
}

func area(id int64, name, responsible string) domain.Area {
	a := domain.Area{ID: id, Name: name}
	if responsible != "" {
		a.ResponsibleID = &responsible
	}
	return a
}

// orgChart is the organization used across the resolver tests:
//
//	ceo
//	├── zoe (2 reports)
//	│   ├── ana
//	│   └── bruno
//	├── Álvaro
//	└── beatriz (1 report)
//	    └── caio
func orgChart() []domain.Employee {
	return []domain.Employee{
		emp("ceo", "Carla", "", 1),
		emp("zoe", "Zoe", "ceo", 0),
		emp("alvaro", "Álvaro", "ceo", 0),
		emp("beatriz", "beatriz", "ceo", 0),
		emp("ana", "Ana", "zoe", 0),
		emp("bruno", "Bruno", "zoe", 0),
		emp("caio", "Caio", "beatriz", 0),
	}
}

func TestDirectReports_OrderedByTeamSizeThenName(t *testing.T) {
	r := NewResolver(NewSnapshot(orgChart()), nil)

	got := r.DirectReports("ceo")
	assert.Equal(t, []string{"Zoe", "beatriz", "Álvaro"}, names(got))
}

func TestDirectReports_NameOrderIsLocaleAwareAndCaseInsensitive(t *testing.T) {
	r := NewResolver(NewSnapshot([]domain.Employee{
		emp("m", "Boss", "", 0),
		emp("1", "bruno", "m", 0),
		emp("2", "Álvaro", "m", 0),
		emp("3", "Ana", "m", 0),
		emp("4", "Carlos", "m", 0),
	}), nil)

	assert.Equal(t, []string{"Álvaro", "Ana", "bruno", "Carlos"}, names(r.DirectReports("m")))
}

func TestDirectReports_NeverIncludesSelf(t *testing.T) {
	r := NewResolver(NewSnapshot([]domain.Employee{
		emp("a", "Self", "a", 0),
		emp("b", "Report", "a", 0),
	}), nil)

	got := r.DirectReports("a")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 1, r.ReportCount("a"))
}

func TestDirectReports_UnknownIDIsEmpty(t *testing.T) {
	r := NewResolver(NewSnapshot(orgChart()), nil)
	assert.Empty(t, r.DirectReports("ghost"))
}

func TestManagerOf(t *testing.T) {
	r := NewResolver(NewSnapshot([]domain.Employee{
		emp("ceo", "Carla", "", 0),
		emp("a", "Ana", "ceo", 0),
		emp("b", "Bruno", "missing", 0),
		emp("s", "Self", "s", 0),
	}), nil)

	m, ok := r.ManagerOf("a")
	require.True(t, ok)
	assert.Equal(t, "ceo", m.ID)

	_, ok = r.ManagerOf("ceo")
	assert.False(t, ok)
	_, ok = r.ManagerOf("b")
	assert.False(t, ok)
	_, ok = r.ManagerOf("s")
	assert.False(t, ok)
	_, ok = r.ManagerOf("ghost")
	assert.False(t, ok)
}

func TestResolveDirectorate_FirstAreaUpTheChainWins(t *testing.T) {
	employees := []domain.Employee{
		emp("dir", "Diana", "", 1),
		emp("mgr", "Marcos", "dir", 2),
		emp("a", "Ana", "mgr", 0),
	}
	areas := []domain.Area{area(1, "Operations", "dir"), area(2, "Logistics", "mgr")}
	r := NewResolver(NewSnapshot(employees), areas)

	d := r.ResolveDirectorate("a")
	require.NotNil(t, d.Area)
	assert.Equal(t, "Logistics", d.Area.Name)
	require.NotNil(t, d.Responsible)
	assert.Equal(t, "mgr", d.Responsible.ID)

	d = r.ResolveDirectorate("dir")
	require.NotNil(t, d.Area)
	assert.Equal(t, "Operations", d.Area.Name)
}

func TestResolveDirectorate_SkipsUnknownAreas(t *testing.T) {
	employees := []domain.Employee{
		emp("dir", "Diana", "", 1),
		emp("a", "Ana", "dir", 99),
	}
	r := NewResolver(NewSnapshot(employees), []domain.Area{area(1, "Operations", "")})

	d := r.ResolveDirectorate("a")
	require.NotNil(t, d.Area)
	assert.Equal(t, int64(1), d.Area.ID)
	assert.Nil(t, d.Responsible)
}

func TestResolveDirectorate_SupplementaryFallback(t *testing.T) {
	scoped := NewSnapshot([]domain.Employee{emp("a", "Ana", "", 1)})
	extra := NewSnapshot([]domain.Employee{emp("boss", "Beto", "", 0)})

	r := NewResolver(scoped, []domain.Area{area(1, "Finance", "boss")}, WithSupplementary(extra))
	d := r.ResolveDirectorate("a")
	require.NotNil(t, d.Responsible)
	assert.Equal(t, "Beto", d.Responsible.Name)

	r = NewResolver(scoped, []domain.Area{area(1, "Finance", "nobody")}, WithSupplementary(extra))
	d = r.ResolveDirectorate("a")
	require.NotNil(t, d.Area)
	assert.Nil(t, d.Responsible)
}

func TestResolveDirectorate_PrimaryBeatsSupplementary(t *testing.T) {
	scoped := NewSnapshot([]domain.Employee{emp("a", "Ana", "", 1), emp("boss", "Primary", "", 0)})
	extra := NewSnapshot([]domain.Employee{emp("boss", "Secondary", "", 0)})

	r := NewResolver(scoped, []domain.Area{area(1, "Finance", "boss")}, WithSupplementary(extra))
	assert.Equal(t, "Primary", r.ResolveDirectorate("a").Responsible.Name)
}

func TestResolveDirectorate_NoAreaOrBrokenChain(t *testing.T) {
	r := NewResolver(NewSnapshot([]domain.Employee{
		emp("a", "Ana", "gone", 0),
	}), []domain.Area{area(1, "Finance", "")})

	assert.Equal(t, Directorate{}, r.ResolveDirectorate("a"))
	assert.Equal(t, Directorate{}, r.ResolveDirectorate("ghost"))
}

func TestCyclesTerminate(t *testing.T) {
	r := NewResolver(NewSnapshot([]domain.Employee{
		emp("a", "Ana", "b", 0),
		emp("b", "Bruno", "a", 0),
		emp("c", "Caio", "a", 0),
	}), []domain.Area{area(1, "Finance", "")})

	assert.Equal(t, Directorate{}, r.ResolveDirectorate("c"))

	top, ok := r.TopOfChain("c")
	require.True(t, ok)
	assert.Equal(t, "b", top.ID)

	top, ok = r.TopOfChain("a")
	require.True(t, ok)
	assert.Equal(t, "b", top.ID)

	assert.Equal(t, []string{"Ana", "Bruno"}, names(r.ChainOfCommand("c")))
	assert.ElementsMatch(t, []string{"b", "c"}, r.Subordinates("a"))
}

func TestTopOfChain(t *testing.T) {
	r := NewResolver(NewSnapshot(orgChart()), nil)

	top, ok := r.TopOfChain("caio")
	require.True(t, ok)
	assert.Equal(t, "ceo", top.ID)

	top, ok = r.TopOfChain("ceo")
	require.True(t, ok)
	assert.Equal(t, "ceo", top.ID)

	_, ok = r.TopOfChain("ghost")
	assert.False(t, ok)
}

func TestChainOfCommand(t *testing.T) {
	r := NewResolver(NewSnapshot(orgChart()), nil)

	assert.Equal(t, []string{"beatriz", "Carla"}, names(r.ChainOfCommand("caio")))
	assert.Empty(t, r.ChainOfCommand("ceo"))
	assert.Empty(t, r.ChainOfCommand("ghost"))
}

func TestSubordinates(t *testing.T) {
	r := NewResolver(NewSnapshot(orgChart()), nil)

	assert.ElementsMatch(t, []string{"zoe", "alvaro", "beatriz", "ana", "bruno", "caio"}, r.Subordinates("ceo"))
	assert.ElementsMatch(t, []string{"ana", "bruno"}, r.Subordinates("zoe"))
	assert.Empty(t, r.Subordinates("ana"))
}

func TestSnapshot_FirstRecordWins(t *testing.T) {
	s := NewSnapshot([]domain.Employee{
		emp("a", "First", "", 0),
		emp("a", "Second", "", 0),
		emp("", "NoID", "", 0),
	})

	assert.Equal(t, 1, s.Len())
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "First", got.Name)
}
