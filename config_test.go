package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenancy "github.com/goliatone/go-tenancy"
)

func TestNewEnvConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := tenancy.NewEnvConfig()
		require.NoError(t, err)

		assert.Equal(t, "/login", cfg.GetLoginRoute())
		assert.Equal(t, "/dashboard", cfg.GetLandingRoute())
		assert.Equal(t, "/denied", cfg.GetDeniedRoute())
		assert.Equal(t, []string{"/", "/login", "/register"}, cfg.GetPublicRoutes())
		assert.Equal(t, []string{"/admin"}, cfg.GetAdminRoutePrefixes())
		assert.Equal(t, "rejected_route", cfg.GetRejectedRouteKey())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TENANCY_LOGIN_ROUTE", "/signin")
		t.Setenv("TENANCY_PUBLIC_ROUTES", "/,/signin,/help")
		t.Setenv("TENANCY_API_BASE_URL", "https://api.example.com")

		cfg, err := tenancy.NewEnvConfig()
		require.NoError(t, err)

		assert.Equal(t, "/signin", cfg.GetLoginRoute())
		assert.Equal(t, []string{"/", "/signin", "/help"}, cfg.GetPublicRoutes())
		assert.Equal(t, "https://api.example.com", cfg.GetAPIBaseURL())
	})

	t.Run("blank required route fails validation", func(t *testing.T) {
		cfg := tenancy.EnvConfig{
			LoginRoute:   "",
			LandingRoute: "/dashboard",
			DeniedRoute:  "/denied",
		}
		assert.Error(t, cfg.Validate())
	})
}
