// Package navigation keeps page transitions consistent with the session:
// a static route table, a guard that decides every transition, and an
// in-process router that applies the guard's decisions.
package navigation

import (
	"context"
	"net/url"

	"github.com/gongxings/ai-creator/internal/config"
)

// AuthState is the read-only view of the credential store the guard consults.
type AuthState interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

type decisionKind int

const (
	decisionAllow decisionKind = iota
	decisionRedirect
	decisionAbort
)

// Decision is the verdict of a before-each hook.
type Decision struct {
	kind  decisionKind
	Path  string
	Query url.Values
}

func Allow() Decision {
	return Decision{kind: decisionAllow}
}

func Redirect(path string, query url.Values) Decision {
	return Decision{kind: decisionRedirect, Path: path, Query: query}
}

func Abort() Decision {
	return Decision{kind: decisionAbort}
}

func (d Decision) Allowed() bool    { return d.kind == decisionAllow }
func (d Decision) Redirected() bool { return d.kind == decisionRedirect }
func (d Decision) Aborted() bool    { return d.kind == decisionAbort }

// Target is the redirect target as a path with query.
func (d Decision) Target() string {
	if len(d.Query) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Query.Encode()
}

// Guard decides route transitions from the route's requirement and the
// session state. It has no side effects: it never prompts and never logs out.
type Guard struct {
	auth          AuthState
	loginRoute    string
	registerRoute string
	landingRoute  string
}

func NewGuard(auth AuthState, cfg config.NavigationConfig) *Guard {
	g := &Guard{
		auth:          auth,
		loginRoute:    "/login",
		registerRoute: "/register",
		landingRoute:  "/",
	}
	if cfg != nil {
		if v := cfg.GetLoginRoute(); v != "" {
			g.loginRoute = v
		}
		if v := cfg.GetRegisterRoute(); v != "" {
			g.registerRoute = v
		}
		if v := cfg.GetLandingRoute(); v != "" {
			g.landingRoute = v
		}
	}
	return g
}

// Check decides the transition to `to`:
//  1. auth required and logged out: login page, remembering `to`
//  2. admin required and not admin: landing page
//  3. login or register page while logged in: landing page
//  4. otherwise allowed
func (g *Guard) Check(to Location) Decision {
	authenticated := g.auth.IsAuthenticated()
	switch {
	case to.Requirement.RequiresAuth && !authenticated:
		return Redirect(g.loginRoute, url.Values{"redirect": []string{to.FullPath()}})
	case to.Requirement.RequiresAdmin && !g.auth.IsAdmin():
		return Redirect(g.landingRoute, nil)
	case authenticated && (to.Path == g.loginRoute || to.Path == g.registerRoute):
		return Redirect(g.landingRoute, nil)
	default:
		return Allow()
	}
}

// BeforeEach adapts Check to a Router hook.
func (g *Guard) BeforeEach(_ context.Context, to, _ Location) Decision {
	return g.Check(to)
}
