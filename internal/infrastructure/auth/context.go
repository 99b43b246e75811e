package auth

import "context"

type callerKey struct{}

// Caller identifies the authenticated user of a request.
type Caller struct {
	ID    string
	Name  string
	Email string
}

const AnonymousCaller = "anonymous"

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// ActorFromContext returns the caller id, or AnonymousCaller when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) string {
	if c, ok := CallerFromContext(ctx); ok && c.ID != "" {
		return c.ID
	}
	return AnonymousCaller
}
