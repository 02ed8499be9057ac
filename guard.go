package tenancy

import "time"

// GuardState is the outcome state of a navigation evaluation. Evaluating is
// the transient starting state; the other three are terminal.
type GuardState int

const (
	// StateEvaluating is the initial state of every evaluation
	StateEvaluating GuardState = iota
	// StateAdmitted lets the navigation proceed
	StateAdmitted
	// StateRedirectLogin sends the visitor to the login route
	StateRedirectLogin
	// StateRedirectDenied sends the visitor to the access-denied route
	StateRedirectDenied
)

func (s GuardState) String() string {
	switch s {
	case StateEvaluating:
		return "evaluating"
	case StateAdmitted:
		return "admitted"
	case StateRedirectLogin:
		return "redirect_login"
	case StateRedirectDenied:
		return "redirect_denied"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the evaluation.
func (s GuardState) Terminal() bool {
	switch s {
	case StateAdmitted, StateRedirectLogin, StateRedirectDenied:
		return true
	default:
		return false
	}
}

// Decision is the single deterministic outcome of one evaluation. RedirectTo
// is set for both redirect states and for the admitted-on-login-page bounce,
// where an authenticated visitor is admitted and immediately sent to the
// landing route.
type Decision struct {
	State      GuardState
	Path       string
	Class      RouteClass
	RedirectTo string
}

// Redirects reports whether the decision carries a redirect target.
func (d Decision) Redirects() bool {
	return d.RedirectTo != ""
}

// AccessGuard gates navigation using the session credential, the tenant
// registry, and the route classifier. Each Evaluate call is one pass of the
// state machine: classification, then a single transition into a terminal
// state. There is no retry and no partial admission.
type AccessGuard struct {
	classifier *RouteClassifier
	session    *SessionStore
	registry   *TenantRegistry
	cfg        Config
	logger     Logger
	now        func() time.Time
}

// NewAccessGuard wires the guard to its collaborators.
func NewAccessGuard(classifier *RouteClassifier, session *SessionStore, registry *TenantRegistry, cfg Config) *AccessGuard {
	return &AccessGuard{
		classifier: classifier,
		session:    session,
		registry:   registry,
		cfg:        cfg,
		logger:     defLogger{},
		now:        time.Now,
	}
}

// WithLogger sets the logger used for denied evaluations.
func (g *AccessGuard) WithLogger(logger Logger) *AccessGuard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// WithClock injects a custom clock (useful for tests).
func (g *AccessGuard) WithClock(clock func() time.Time) *AccessGuard {
	if clock != nil {
		g.now = clock
	}
	return g
}

// Evaluate runs the state machine for the current session state.
func (g *AccessGuard) Evaluate(path string) Decision {
	return g.evaluate(path, g.session.Credential())
}

// EvaluateToken runs the state machine for an explicit raw token, as when
// gating a request that carries its own bearer token. A token that fails to
// decode is treated identically to an absent credential: the guard fails
// toward RedirectLogin, never toward admission.
func (g *AccessGuard) EvaluateToken(path, rawToken string) Decision {
	var cred Credential
	if rawToken != "" {
		claims, err := DecodeToken(rawToken)
		switch {
		case err != nil:
			g.logger.Warn("Guard treating undecodable token as anonymous", "path", path, "error", err)
		case !claims.Expiry().IsZero() && !claims.Expiry().After(g.now()):
			g.logger.Debug("Guard treating expired token as anonymous", "path", path)
		default:
			cred = claims
		}
	}
	return g.evaluate(path, cred)
}

func (g *AccessGuard) evaluate(path string, cred Credential) Decision {
	decision := Decision{
		State: StateEvaluating,
		Path:  normalizePath(path),
		Class: g.classifier.Classify(path),
	}

	// Authenticated visitors bounce off the login page to the landing route.
	if cred != nil && decision.Path == normalizePath(g.cfg.GetLoginRoute()) {
		decision.State = StateAdmitted
		decision.RedirectTo = g.cfg.GetLandingRoute()
		return decision
	}

	switch decision.Class.Kind {
	case RoutePublic:
		decision.State = StateAdmitted

	case RouteAuthenticated:
		if cred == nil {
			decision.State = StateRedirectLogin
			decision.RedirectTo = g.cfg.GetLoginRoute()
			return decision
		}
		decision.State = StateAdmitted

	case RouteAuthenticatedAdmin:
		if cred == nil {
			decision.State = StateRedirectLogin
			decision.RedirectTo = g.cfg.GetLoginRoute()
			return decision
		}
		if !g.hasRequiredRole(cred, decision.Class.RequiredRoles) {
			g.logger.Info("Admin route denied", "path", decision.Path, "subject", cred.Subject())
			decision.State = StateRedirectDenied
			decision.RedirectTo = g.cfg.GetDeniedRoute()
			return decision
		}
		decision.State = StateAdmitted
	}

	return decision
}

// hasRequiredRole checks the credential role set against the required set.
// Administering the selected tenant is an alternative grant: club admins
// reach the admin surface of their club without a global role claim.
func (g *AccessGuard) hasRequiredRole(cred Credential, required []string) bool {
	roles := cred.Roles()
	for _, want := range required {
		for _, have := range roles {
			if have == want {
				return true
			}
		}
	}

	if g.registry != nil && g.registry.IsAdminInSelected() {
		return true
	}

	return false
}
