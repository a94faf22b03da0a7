package middleware

import "context"

type ctxUserIDKey struct{}

// WithUserID stores the authenticated user id on the request context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ctxUserIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(ctxUserIDKey{}).(uint)
	return userID, ok
}
