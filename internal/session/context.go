package session

import "context"

type ctxKey struct{}

// WithSession returns a context carrying sess
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session carried by ctx
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}

// MustFromContext returns the session carried by ctx. A missing session means
// a route was wired without the session middleware; it panics.
func MustFromContext(ctx context.Context) *Session {
	sess, ok := FromContext(ctx)
	if !ok {
		panic("session: canvas store used outside of a session scope (route is missing the session middleware)")
	}
	return sess
}
