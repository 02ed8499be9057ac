package tenancy

import (
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// DecisionLocalsKey is the router locals key the middleware stores the guard
// decision under.
const DecisionLocalsKey = "tenancy_decision"

// tokenCookieName is the session cookie checked when no Authorization header
// is present.
const tokenCookieName = "session_token"

// GuardMiddleware turns AccessGuard decisions into go-router behavior:
// admitted requests proceed with the decision in Locals, redirect decisions
// become HTTP redirects with the rejected route remembered in a cookie so
// login can send the visitor back.
type GuardMiddleware struct {
	guard        *AccessGuard
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewGuardMiddleware builds the middleware around an AccessGuard.
func NewGuardMiddleware(guard *AccessGuard, cfg Config) *GuardMiddleware {
	m := &GuardMiddleware{
		guard:  guard,
		cfg:    cfg,
		Logger: defLogger{},
	}
	m.ErrorHandler = m.defaultErrHandler
	return m
}

// Handler returns the router middleware.
func (m *GuardMiddleware) Handler() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			decision := m.guard.EvaluateToken(c.Path(), m.tokenFromRequest(c))

			switch decision.State {
			case StateAdmitted:
				if decision.Redirects() {
					// Authenticated visitor on the login page bounces to the
					// landing route.
					return c.Redirect(decision.RedirectTo, http.StatusSeeOther)
				}
				c.Locals(DecisionLocalsKey, decision)
				return hf(c)

			case StateRedirectLogin:
				m.SetRedirect(c)
				statusCode := http.StatusSeeOther
				if c.Method() == string(router.GET) {
					statusCode = http.StatusFound
				}
				return c.Redirect(decision.RedirectTo, statusCode)

			case StateRedirectDenied:
				m.Logger.Info("Denying admin route", "path", decision.Path)
				return c.Redirect(decision.RedirectTo, http.StatusSeeOther)

			default:
				return m.ErrorHandler(c, goerrors.New("guard evaluation did not terminate", goerrors.CategoryInternal))
			}
		}
	}
}

// SetRedirect remembers the rejected route so the login flow can return to it.
func (m *GuardMiddleware) SetRedirect(c router.Context) {
	rejectedRoute := m.cfg.GetRejectedRouteKey()

	m.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect pops the remembered rejected route, falling back to the
// landing route.
func (m *GuardMiddleware) GetRedirect(c router.Context) string {
	rejectedRoute := m.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		return m.cfg.GetLandingRoute()
	}
	m.cookieDel(c, rejectedRoute)
	return r
}

func (m *GuardMiddleware) tokenFromRequest(c router.Context) string {
	if header := c.Header(headerAuthorization); header != "" {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	return c.Cookies(tokenCookieName)
}

func (m *GuardMiddleware) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (m *GuardMiddleware) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected guard error occurred").
			WithCode(goerrors.CodeInternal)
	}

	m.Logger.Error(
		"Guard middleware error",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.Status(richErr.Code).SendString("Internal Server Error")
}
