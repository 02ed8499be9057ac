package tenancy

import (
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// EnvConfig is the default Config implementation, loaded from the
// environment. Hosts with their own configuration layer can implement the
// Config interface directly instead.
type EnvConfig struct {
	LoginRoute         string   `env:"TENANCY_LOGIN_ROUTE" envDefault:"/login"`
	LandingRoute       string   `env:"TENANCY_LANDING_ROUTE" envDefault:"/dashboard"`
	DeniedRoute        string   `env:"TENANCY_DENIED_ROUTE" envDefault:"/denied"`
	PublicRoutes       []string `env:"TENANCY_PUBLIC_ROUTES" envSeparator:"," envDefault:"/,/login,/register"`
	AdminRoutePrefixes []string `env:"TENANCY_ADMIN_ROUTE_PREFIXES" envSeparator:"," envDefault:"/admin"`
	APIBaseURL         string   `env:"TENANCY_API_BASE_URL"`
	RejectedRouteKey   string   `env:"TENANCY_REJECTED_ROUTE_KEY" envDefault:"rejected_route"`
}

// Verify interface compliance
var _ Config = (*EnvConfig)(nil)

// NewEnvConfig parses and validates configuration from the environment.
func NewEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to parse configuration from environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

// Validate checks the route configuration for the guard's invariants.
func (c EnvConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LoginRoute, validation.Required),
		validation.Field(&c.LandingRoute, validation.Required),
		validation.Field(&c.DeniedRoute, validation.Required),
		validation.Field(&c.RejectedRouteKey, validation.Required),
	)
}

func (c *EnvConfig) GetLoginRoute() string {
	return c.LoginRoute
}

func (c *EnvConfig) GetLandingRoute() string {
	return c.LandingRoute
}

func (c *EnvConfig) GetDeniedRoute() string {
	return c.DeniedRoute
}

func (c *EnvConfig) GetPublicRoutes() []string {
	return c.PublicRoutes
}

func (c *EnvConfig) GetAdminRoutePrefixes() []string {
	return c.AdminRoutePrefixes
}

func (c *EnvConfig) GetAPIBaseURL() string {
	return c.APIBaseURL
}

func (c *EnvConfig) GetRejectedRouteKey() string {
	return c.RejectedRouteKey
}
