package config

type NavigationConfig interface {
	GetLoginRoute() string
	GetRegisterRoute() string
	GetLandingRoute() string
	GetRoutesFile() string
}

type Navigation struct {
	LoginRoute    string `env:"ROUTE_LOGIN" envDefault:"/login"`
	RegisterRoute string `env:"ROUTE_REGISTER" envDefault:"/register"`
	LandingRoute  string `env:"ROUTE_LANDING" envDefault:"/"`
	RoutesFile    string `env:"ROUTES_FILE"` // optional YAML route table; the built-in table is used when empty
}

var _ NavigationConfig = Navigation{}

func (n Navigation) GetLoginRoute() string {
	return n.LoginRoute
}

func (n Navigation) GetRegisterRoute() string {
	return n.RegisterRoute
}

func (n Navigation) GetLandingRoute() string {
	return n.LandingRoute
}

func (n Navigation) GetRoutesFile() string {
	return n.RoutesFile
}
