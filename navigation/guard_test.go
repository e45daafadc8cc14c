package navigation_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/gongxings/ai-creator/internal/config"
	autherrors "github.com/gongxings/ai-creator/internal/errors"
	"github.com/gongxings/ai-creator/navigation"
	"github.com/stretchr/testify/require"
)

type authState struct {
	authenticated bool
	admin         bool
}

func (a *authState) IsAuthenticated() bool { return a.authenticated }
func (a *authState) IsAdmin() bool         { return a.admin }

type testFixture struct {
	auth   *authState
	guard  *navigation.Guard
	router *navigation.Router
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{auth: &authState{}}
	f.guard = navigation.NewGuard(f.auth, config.Navigation{})
	f.router = navigation.NewRouter(defaultTable(t))
	f.router.BeforeEach(f.guard.BeforeEach)
	return f
}

func (f *testFixture) check(t *testing.T, path string) navigation.Decision {
	t.Helper()
	loc, err := f.router.Resolve(path)
	require.NoError(t, err)
	return f.guard.Check(loc)
}

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		admin         bool
		path          string
		allowed       bool
		target        string
	}{
		{"anonymous on auth route", false, false, "/history?page=2", false, "/login?redirect=%2Fhistory%3Fpage%3D2"},
		{"anonymous on public route", false, false, "/", true, ""},
		{"anonymous on login", false, false, "/login", true, ""},
		{"anonymous on admin route", false, false, "/operation/statistics", false, "/"},
		{"user on admin route", true, false, "/operation/statistics", false, "/"},
		{"admin on admin route", true, true, "/operation/statistics", true, ""},
		{"user on auth route", true, false, "/writing/article", true, ""},
		{"user on login", true, false, "/login", false, "/"},
		{"user on register", true, false, "/register", false, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.auth.authenticated = tt.authenticated
			f.auth.admin = tt.admin

			d := f.check(t, tt.path)
			require.Equal(t, tt.allowed, d.Allowed())
			if !tt.allowed {
				require.True(t, d.Redirected())
				require.Equal(t, tt.target, d.Target())
			}
		})
	}
}

func TestRouter_AnonymousRedirectedToLogin(t *testing.T) {
	f := setupTestFixture(t)

	loc, err := f.router.Push(context.Background(), "/credit/recharge")
	require.NoError(t, err)
	require.Equal(t, navigation.RouteLogin, loc.Name)
	require.Equal(t, "/credit/recharge", loc.Query.Get("redirect"))
	require.Equal(t, "/login?redirect=%2Fcredit%2Frecharge", f.router.CurrentPath())
}

func TestRouter_AuthenticatedAllowed(t *testing.T) {
	f := setupTestFixture(t)
	f.auth.authenticated = true

	require.NoError(t, f.router.Navigate(context.Background(), "/history", url.Values{"page": []string{"3"}}))
	require.Equal(t, navigation.RouteCreationHistory, f.router.Current().Name)
	require.Equal(t, "/history?page=3", f.router.CurrentPath())
}

func TestRouter_LoggedInLoginGoesHome(t *testing.T) {
	f := setupTestFixture(t)
	f.auth.authenticated = true

	require.NoError(t, f.router.Navigate(context.Background(), "/login", url.Values{"redirect": []string{"/history"}}))
	require.Equal(t, navigation.RouteHome, f.router.Current().Name)
}

func TestRouter_InitialPath(t *testing.T) {
	f := setupTestFixture(t)
	require.Equal(t, "/", f.router.CurrentPath())
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := setupTestFixture(t)
	err := f.router.Navigate(context.Background(), "/missing", nil)
	require.ErrorIs(t, err, autherrors.ErrRouteNotFound)
	require.Equal(t, "/", f.router.CurrentPath())
}

func TestRouter_AbortKeepsLocation(t *testing.T) {
	f := setupTestFixture(t)
	f.auth.authenticated = true
	require.NoError(t, f.router.Navigate(context.Background(), "/image", nil))

	f.router.BeforeEach(func(_ context.Context, to, _ navigation.Location) navigation.Decision {
		if to.Name == navigation.RouteVideoGeneration {
			return navigation.Abort()
		}
		return navigation.Allow()
	})

	err := f.router.Navigate(context.Background(), "/video", nil)
	require.True(t, errors.Is(err, autherrors.ErrNavigationAborted))
	require.Equal(t, "/image", f.router.CurrentPath())
}

func TestRouter_RedirectLoopBounded(t *testing.T) {
	router := navigation.NewRouter(defaultTable(t), navigation.WithMaxRedirects(3))
	router.BeforeEach(func(_ context.Context, to, _ navigation.Location) navigation.Decision {
		if to.Name == navigation.RouteImageGeneration {
			return navigation.Redirect("/video", nil)
		}
		return navigation.Redirect("/image", nil)
	})

	err := router.Navigate(context.Background(), "/image", nil)
	require.ErrorIs(t, err, autherrors.ErrTooManyRedirects)
}
