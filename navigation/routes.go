package navigation

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Requirement is the static access rule of a route record.
type Requirement struct {
	RequiresAuth  bool `yaml:"requiresAuth"`
	RequiresAdmin bool `yaml:"requiresAdmin"`
}

// Or combines the requirements of nested records: a child inherits every
// restriction of its parents.
func (r Requirement) Or(other Requirement) Requirement {
	return Requirement{
		RequiresAuth:  r.RequiresAuth || other.RequiresAuth,
		RequiresAdmin: r.RequiresAdmin || other.RequiresAdmin,
	}
}

// Route is one record of the route table. Child paths are relative to the
// parent; ":name" segments match any single segment.
type Route struct {
	Name     string      `yaml:"name"`
	Path     string      `yaml:"path"`
	Meta     Requirement `yaml:"meta"`
	Children []Route     `yaml:"children"`
}

// Route names of the built-in table
const (
	RouteLogin               = "Login"
	RouteRegister            = "Register"
	RouteHome                = "Home"
	RouteWritingTools        = "WritingTools"
	RouteWritingEditor       = "WritingEditor"
	RouteCreationHistory     = "CreationHistory"
	RouteImageGeneration     = "ImageGeneration"
	RouteVideoGeneration     = "VideoGeneration"
	RoutePPTGeneration       = "PPTGeneration"
	RoutePublishManagement   = "PublishManagement"
	RouteUserSettings        = "UserSettings"
	RouteCreditRecharge      = "CreditRecharge"
	RouteMembershipPurchase  = "MembershipPurchase"
	RouteTransactionHistory  = "TransactionHistory"
	RouteActivityManagement  = "ActivityManagement"
	RouteCouponManagement    = "CouponManagement"
	RouteReferralManagement  = "ReferralManagement"
	RouteOperationStatistics = "OperationStatistics"
)

var (
	public = Requirement{}
	authed = Requirement{RequiresAuth: true}
	admin  = Requirement{RequiresAdmin: true}
)

// DefaultRoutes is the page table of the AI Creator app. Everything except
// login and register renders inside the main layout at "/".
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteLogin, Path: "/login", Meta: public},
		{Name: RouteRegister, Path: "/register", Meta: public},
		{
			Path: "/",
			Children: []Route{
				{Name: RouteHome, Path: "", Meta: public},
				{Name: RouteWritingTools, Path: "writing", Meta: authed},
				{Name: RouteWritingEditor, Path: "writing/:toolType", Meta: authed},
				{Name: RouteCreationHistory, Path: "history", Meta: authed},
				{Name: RouteImageGeneration, Path: "image", Meta: authed},
				{Name: RouteVideoGeneration, Path: "video", Meta: authed},
				{Name: RoutePPTGeneration, Path: "ppt", Meta: authed},
				{Name: RoutePublishManagement, Path: "publish", Meta: authed},
				{Name: RouteUserSettings, Path: "settings", Meta: authed},
				{Name: RouteCreditRecharge, Path: "credit/recharge", Meta: authed},
				{Name: RouteMembershipPurchase, Path: "credit/membership", Meta: authed},
				{Name: RouteTransactionHistory, Path: "credit/transactions", Meta: authed},
				{Name: RouteActivityManagement, Path: "operation/activities", Meta: admin},
				{Name: RouteCouponManagement, Path: "operation/coupons", Meta: admin},
				{Name: RouteReferralManagement, Path: "operation/referral", Meta: admin},
				{Name: RouteOperationStatistics, Path: "operation/statistics", Meta: admin},
			},
		},
	}
}

// LoadRoutes decodes a YAML route table, a list of records shaped like Route.
func LoadRoutes(r io.Reader) ([]Route, error) {
	var routes []Route
	if err := yaml.NewDecoder(r).Decode(&routes); err != nil {
		return nil, fmt.Errorf("[navigation LoadRoutes] decode: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("[navigation LoadRoutes] route table is empty")
	}
	return routes, nil
}

func LoadRoutesFile(path string) ([]Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[navigation LoadRoutesFile] %w", err)
	}
	defer f.Close()
	return LoadRoutes(f)
}
