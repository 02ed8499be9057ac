// Package tenancy provides the multi-tenant authorization and request-scoping
// layer for club-style applications: session credential handling, tenant
// (club) membership state, route classification, navigation guarding, and
// deterministic tenant folding for outbound requests.
//
// Session and tenants:
//   - SessionStore owns the bearer credential. Tokens are decoded on write,
//     persisted to a TokenStorage so sessions survive restarts, and checked
//     for expiry on every read. An expired or malformed token behaves exactly
//     like an anonymous session.
//   - TenantRegistry owns the set of clubs the session belongs to plus the
//     active selection. Refreshes replace the set wholesale; overlapping
//     refreshes are sequenced so a stale response can never clobber a newer
//     one. Selection is re-validated against every refresh result.
//
// Guarding and scoping:
//   - RouteClassifier maps a navigation path to Public, Authenticated, or
//     AuthenticatedAdmin. AccessGuard combines the classification with the
//     credential and tenant state into a single deterministic decision:
//     Admitted, RedirectLogin, or RedirectDenied. Decode failures always fail
//     toward RedirectLogin, never toward admission.
//   - RequestScoper folds the selected tenant id into an endpoint using an
//     ordered policy (placeholder substitution, embedded path id, clubId
//     query parameter) and attaches Authorization/Content-Type headers. The
//     actual network call is delegated to a Transport collaborator.
//
// Use GuardMiddleware to plug AccessGuard into a go-router pipeline with the
// usual rejected-route cookie dance.
package tenancy
