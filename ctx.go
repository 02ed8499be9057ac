package tenancy

import "context"

var credentialCtxKey = &contextKey{"credential"}
var decisionCtxKey = &contextKey{"decision"}

type contextKey struct {
	name string
}

// WithCredential sets the Credential in the given context
func WithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, credentialCtxKey, cred)
}

// CredentialFromContext finds the credential from the context.
func CredentialFromContext(ctx context.Context) (Credential, bool) {
	raw, ok := ctx.Value(credentialCtxKey).(Credential)
	return raw, ok
}

// WithDecision sets the guard Decision in the given context
func WithDecision(ctx context.Context, decision Decision) context.Context {
	return context.WithValue(ctx, decisionCtxKey, decision)
}

// DecisionFromContext finds the guard decision from the context.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	raw, ok := ctx.Value(decisionCtxKey).(Decision)
	return raw, ok
}
