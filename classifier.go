package tenancy

import "strings"

// RouteClassKind is the access-control category of a navigation target.
type RouteClassKind int

const (
	// RoutePublic needs no credential
	RoutePublic RouteClassKind = iota
	// RouteAuthenticated needs a valid credential
	RouteAuthenticated
	// RouteAuthenticatedAdmin needs a credential holding one of RequiredRoles
	RouteAuthenticatedAdmin
)

func (k RouteClassKind) String() string {
	switch k {
	case RoutePublic:
		return "public"
	case RouteAuthenticated:
		return "authenticated"
	case RouteAuthenticatedAdmin:
		return "authenticated_admin"
	default:
		return "unknown"
	}
}

// RouteClass is the classification of a single path. RequiredRoles is only
// populated for RouteAuthenticatedAdmin.
type RouteClass struct {
	Kind          RouteClassKind
	RequiredRoles []string
}

// RouteClassifier is a pure mapping from navigation paths to route classes.
// It holds no mutable state; classification is recomputed per navigation.
type RouteClassifier struct {
	public        []string
	adminPrefixes []string
	adminRoles    []string
}

// DefaultAdminRoles is the role set required by admin routes unless
// overridden with WithAdminRoles.
var DefaultAdminRoles = []string{"Admin"}

// NewRouteClassifier builds a classifier from a fixed public-route set and a
// set of admin route prefixes. Matching is on path-segment boundaries: the
// entry "/clubs" matches "/clubs" and "/clubs/7" but not "/clubsearch".
func NewRouteClassifier(public, adminPrefixes []string) *RouteClassifier {
	return &RouteClassifier{
		public:        normalizeRoutes(public),
		adminPrefixes: normalizeRoutes(adminPrefixes),
		adminRoles:    DefaultAdminRoles,
	}
}

// WithAdminRoles overrides the role set attached to admin classifications.
func (c *RouteClassifier) WithAdminRoles(roles []string) *RouteClassifier {
	if len(roles) > 0 {
		c.adminRoles = roles
	}
	return c
}

// Classify maps a path to its route class. A path matching both the public
// set and an admin prefix classifies as public: the tie must resolve
// deterministically, and an accidental overlap must never lock users out of
// a route that was declared public.
func (c *RouteClassifier) Classify(path string) RouteClass {
	path = normalizePath(path)

	for _, route := range c.public {
		if matchesRoute(path, route) {
			return RouteClass{Kind: RoutePublic}
		}
	}

	for _, prefix := range c.adminPrefixes {
		if matchesRoute(path, prefix) {
			roles := make([]string, len(c.adminRoles))
			copy(roles, c.adminRoles)
			return RouteClass{Kind: RouteAuthenticatedAdmin, RequiredRoles: roles}
		}
	}

	return RouteClass{Kind: RouteAuthenticated}
}

// matchesRoute reports an exact match or a prefix match on a segment boundary.
func matchesRoute(path, route string) bool {
	if path == route {
		return true
	}
	if route == "/" {
		return false
	}
	return strings.HasPrefix(path, route+"/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Query and fragment are not part of the navigation target.
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}

func normalizeRoutes(routes []string) []string {
	out := make([]string, 0, len(routes))
	for _, route := range routes {
		route = normalizePath(route)
		out = append(out, route)
	}
	return out
}
