package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
)

func operations() domain.Area {
	return domain.Area{ID: 1, Name: "Operations", ResponsibleID: ptr("dir")}
}

func TestAccess_Resolve(t *testing.T) {
	ctx := context.Background()
	users := &mockUsers{}
	users.On("GetByID", mock.Anything, "u-mgr").Return(&domain.User{ID: "u-mgr", Role: domain.RoleFiller, Active: true, EmployeeID: ptr("mgr")}, nil)
	users.On("GetByID", mock.Anything, "u-admin").Return(&domain.User{ID: "u-admin", Role: domain.RoleAdmin, Active: true}, nil)
	users.On("GetByID", mock.Anything, "u-off").Return(&domain.User{ID: "u-off", Role: domain.RoleViewer}, nil)
	users.On("GetByID", mock.Anything, "u-free").Return(&domain.User{ID: "u-free", Role: domain.RoleViewer, Active: true}, nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	svc := NewAccessService(users, testDeps(org(), nil))

	p, err := svc.Resolve(ctx, "u-mgr")
	require.NoError(t, err)
	for _, id := range []string{"mgr", "ana", "bia"} {
		assert.True(t, p.CanSee(id), id)
	}
	assert.False(t, p.CanSee("dir"))
	assert.False(t, p.CanSee("out"))

	p, err = svc.Resolve(ctx, "u-admin")
	require.NoError(t, err)
	assert.True(t, p.CanSee("anyone"))

	p, err = svc.Resolve(ctx, "u-free")
	require.NoError(t, err)
	assert.False(t, p.CanSee("ana"))

	_, err = svc.Resolve(ctx, "u-off")
	assert.ErrorIs(t, err, domain.ErrInactiveUser)

	_, err = svc.Resolve(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users.AssertExpectations(t)
}

func TestPrincipal_Authorize(t *testing.T) {
	viewer := NewPrincipal(domain.User{Role: domain.RoleViewer}, "a")
	assert.NoError(t, viewer.authorizeRead("a"))
	assert.ErrorIs(t, viewer.authorizeWrite("a"), domain.ErrReadOnly)
	assert.ErrorIs(t, viewer.authorizeRead("b"), domain.ErrForbidden)

	f := filler("a", "a")
	assert.NoError(t, f.authorizeWrite("a"))
	assert.ErrorIs(t, f.authorizeWrite("b"), domain.ErrForbidden)
	assert.ErrorIs(t, f.authorizeAdmin(), domain.ErrAdminOnly)

	assert.NoError(t, admin().authorizeAdmin())
}

func TestHierarchy_Directory(t *testing.T) {
	svc := NewHierarchyService(&mockOwners{}, testDeps(org(), []domain.Area{operations()}))
	ctx := context.Background()

	node, err := svc.Directory(ctx, admin(), "mgr", &dto.DirectoryQuery{})
	require.NoError(t, err)
	require.NotNil(t, node.Manager)
	assert.Equal(t, "dir", node.Manager.Employee.ID)
	assert.Len(t, node.Children, 2)

	_, err = svc.Directory(ctx, filler("mgr", "mgr", "ana", "bia"), "out", &dto.DirectoryQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Directory(ctx, admin(), "ghost", &dto.DirectoryQuery{})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestHierarchy_DirectorateFallsBackToWholeOrganization(t *testing.T) {
	svc := NewHierarchyService(&mockOwners{}, testDeps(org(), []domain.Area{operations()}))
	ctx := context.Background()

	p := filler("mgr", "mgr", "ana", "bia")
	d, err := svc.Directorate(ctx, p, "ana")
	require.NoError(t, err)
	assert.Nil(t, d.Area)

	mgrInArea := org()
	mgrInArea[1].AreaID = ptr(int64(1))
	svc = NewHierarchyService(&mockOwners{}, testDeps(mgrInArea, []domain.Area{operations()}))
	d, err = svc.Directorate(ctx, p, "ana")
	require.NoError(t, err)
	require.NotNil(t, d.Area)
	assert.Equal(t, "Operations", d.Area.Name)
	require.NotNil(t, d.Responsible)
	assert.Equal(t, "Diana", d.Responsible.Name)
}

func TestHierarchy_Chain(t *testing.T) {
	svc := NewHierarchyService(&mockOwners{}, testDeps(org(), nil))

	chain, err := svc.Chain(context.Background(), admin(), "ana")
	require.NoError(t, err)
	require.Len(t, chain.Managers, 2)
	assert.Equal(t, "mgr", chain.Managers[0].ID)
	assert.Equal(t, "dir", chain.Managers[1].ID)
	assert.Equal(t, "dir", chain.Top.ID)

	chain, err = svc.Chain(context.Background(), admin(), "dir")
	require.NoError(t, err)
	assert.NotNil(t, chain.Managers)
	assert.Empty(t, chain.Managers)
	assert.Equal(t, "dir", chain.Top.ID)

	_, err = svc.Chain(context.Background(), admin(), "ghost")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestHierarchy_Overview(t *testing.T) {
	owners := &mockOwners{}
	owners.On("ListByEmployee", mock.Anything, "dir").Return([]domain.CostCenterOwner{
		{Unit: "Plant Z", CostCenter: "CC-Z", EmployeeID: "dir"},
	}, nil)
	svc := NewHierarchyService(owners, testDeps(org(), []domain.Area{operations()}))

	p := NewPrincipal(domain.User{ID: "u-dir", Role: domain.RoleViewer, Active: true, EmployeeID: ptr("dir")},
		"dir", "mgr", "ana", "bia", "out")
	ov, err := svc.Overview(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, ov.Units, 2)
	assert.Equal(t, "Plant A", ov.Units[0].Unit)
	require.Len(t, ov.Units[0].Directorates, 1)
	assert.Equal(t, "Operations", ov.Units[0].Directorates[0].Name)
	assert.Len(t, ov.Units[0].Directorates[0].CostCenters, 5)
	assert.Equal(t, "Plant Z", ov.Units[1].Unit)
	owners.AssertExpectations(t)
}

func TestHierarchy_OverviewTracesDirectoratesOutsideScope(t *testing.T) {
	employees := org()
	employees[4].Unit = "Plant Z"
	employees[4].CostCenter = "CC-Z"

	owners := &mockOwners{}
	owners.On("ListByEmployee", mock.Anything, "mgr").Return([]domain.CostCenterOwner{
		{Unit: "Plant Z", CostCenter: "CC-Z", EmployeeID: "mgr"},
	}, nil)
	svc := NewHierarchyService(owners, testDeps(employees, []domain.Area{operations()}))

	// neither dir, who holds the area, nor out, who staffs CC-Z, is visible to mgr
	ov, err := svc.Overview(context.Background(), filler("mgr", "mgr", "ana", "bia"))
	require.NoError(t, err)

	require.Len(t, ov.Units, 2)
	assert.Equal(t, "Plant A", ov.Units[0].Unit)
	require.Len(t, ov.Units[0].Directorates, 1)
	assert.Equal(t, "Operations", ov.Units[0].Directorates[0].Name)
	assert.Equal(t, []string{"CC-ana", "CC-bia", "CC-mgr"}, ov.Units[0].Directorates[0].CostCenters)
	require.NotNil(t, ov.Units[0].Directorates[0].Director)
	assert.Equal(t, "dir", ov.Units[0].Directorates[0].Director.ID)

	assert.Equal(t, "Plant Z", ov.Units[1].Unit)
	require.Len(t, ov.Units[1].Directorates, 1)
	assert.Equal(t, "Operations", ov.Units[1].Directorates[0].Name)
	assert.Equal(t, []string{"CC-Z"}, ov.Units[1].Directorates[0].CostCenters)
	owners.AssertExpectations(t)
}

func TestHierarchy_OverviewSurvivesOwnerFailure(t *testing.T) {
	owners := &mockOwners{}
	owners.On("ListByEmployee", mock.Anything, "mgr").Return(nil, errors.New("boom"))
	svc := NewHierarchyService(owners, testDeps(org(), nil))

	ov, err := svc.Overview(context.Background(), filler("mgr", "mgr", "ana"))
	require.NoError(t, err)
	require.Len(t, ov.Units, 1)
}

func TestHierarchy_ScopeAndAreas(t *testing.T) {
	svc := NewHierarchyService(&mockOwners{}, testDeps(org(), []domain.Area{operations()}))
	ctx := context.Background()

	scope, err := svc.Scope(ctx, filler("mgr", "mgr", "bia"))
	require.NoError(t, err)
	assert.Len(t, scope, 2)

	areas, err := svc.Areas(ctx)
	require.NoError(t, err)
	assert.Len(t, areas, 1)
}

func TestHierarchy_LoadFailure(t *testing.T) {
	deps := testDeps(nil, nil)
	deps.Employees = &fakeEmployees{err: errors.New("unreachable")}
	svc := NewHierarchyService(&mockOwners{}, deps)

	_, err := svc.Overview(context.Background(), admin())
	assert.ErrorContains(t, err, "unreachable")
}
