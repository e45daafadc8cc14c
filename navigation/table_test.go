package navigation_test

import (
	"strings"
	"testing"

	autherrors "github.com/gongxings/ai-creator/internal/errors"
	"github.com/gongxings/ai-creator/navigation"
	"github.com/stretchr/testify/require"
)

func defaultTable(t *testing.T) *navigation.Table {
	t.Helper()
	table, err := navigation.NewTable(navigation.DefaultRoutes())
	require.NoError(t, err)
	return table
}

func TestResolve_DefaultRoutes(t *testing.T) {
	table := defaultTable(t)

	tests := []struct {
		path        string
		name        string
		requirement navigation.Requirement
	}{
		{"/", navigation.RouteHome, navigation.Requirement{}},
		{"/login", navigation.RouteLogin, navigation.Requirement{}},
		{"/writing", navigation.RouteWritingTools, navigation.Requirement{RequiresAuth: true}},
		{"/writing/article", navigation.RouteWritingEditor, navigation.Requirement{RequiresAuth: true}},
		{"/credit/transactions/", navigation.RouteTransactionHistory, navigation.Requirement{RequiresAuth: true}},
		{"/operation/coupons", navigation.RouteCouponManagement, navigation.Requirement{RequiresAdmin: true}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := table.Resolve(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.name, loc.Name)
			require.Equal(t, tt.requirement, loc.Requirement)
		})
	}
}

func TestResolve_ParamsAndQuery(t *testing.T) {
	loc, err := defaultTable(t).Resolve("/writing/wechat%20article?draft=1")
	require.NoError(t, err)

	require.Equal(t, navigation.RouteWritingEditor, loc.Name)
	require.Equal(t, "wechat article", loc.Params["toolType"])
	require.Equal(t, "1", loc.Query.Get("draft"))
	require.Equal(t, []string{"", navigation.RouteWritingEditor}, loc.Matched)
	require.Equal(t, "/writing/wechat%20article?draft=1", loc.FullPath())
}

func TestResolve_NotFound(t *testing.T) {
	_, err := defaultTable(t).Resolve("/nowhere/at/all")
	require.ErrorIs(t, err, autherrors.ErrRouteNotFound)
}

func TestResolve_NestedRequirementIsOr(t *testing.T) {
	routes := []navigation.Route{
		{Name: "Open", Path: "/open"},
		{
			Name: "Console",
			Path: "/console",
			Meta: navigation.Requirement{RequiresAuth: true},
			Children: []navigation.Route{
				{Name: "Overview", Path: ""},
				{Name: "Users", Path: "users", Meta: navigation.Requirement{RequiresAdmin: true}},
			},
		},
	}
	table, err := navigation.NewTable(routes)
	require.NoError(t, err)

	overview, err := table.Resolve("/console")
	require.NoError(t, err)
	require.Equal(t, navigation.Requirement{RequiresAuth: true}, overview.Requirement)

	users, err := table.Resolve("/console/users")
	require.NoError(t, err)
	require.Equal(t, navigation.Requirement{RequiresAuth: true, RequiresAdmin: true}, users.Requirement)
	require.Equal(t, []string{"Console", "Users"}, users.Matched)
}

func TestResolve_StaticBeatsParam(t *testing.T) {
	routes := []navigation.Route{
		{Name: "Item", Path: "/items/:id"},
		{Name: "NewItem", Path: "/items/new"},
	}
	table, err := navigation.NewTable(routes)
	require.NoError(t, err)

	loc, err := table.Resolve("/items/new")
	require.NoError(t, err)
	require.Equal(t, "NewItem", loc.Name)
}

func TestNewTable_RejectsUnnamedLeaf(t *testing.T) {
	_, err := navigation.NewTable([]navigation.Route{{Path: "/x"}})
	require.Error(t, err)
}

const routesYAML = `
- name: Login
  path: /login
- path: /
  children:
    - name: Home
      path: ""
    - name: Reports
      path: reports/:year
      meta:
        requiresAuth: true
        requiresAdmin: true
`

func TestLoadRoutes(t *testing.T) {
	routes, err := navigation.LoadRoutes(strings.NewReader(routesYAML))
	require.NoError(t, err)
	require.Len(t, routes, 2)

	table, err := navigation.NewTable(routes)
	require.NoError(t, err)
	loc, err := table.Resolve("/reports/2026")
	require.NoError(t, err)
	require.Equal(t, "Reports", loc.Name)
	require.Equal(t, "2026", loc.Params["year"])
	require.True(t, loc.Requirement.RequiresAdmin)
}

func TestLoadRoutes_Empty(t *testing.T) {
	_, err := navigation.LoadRoutes(strings.NewReader("[]"))
	require.Error(t, err)
}
