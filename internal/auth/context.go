package auth

import "context"

type userContextKey struct{}

// ContextWithUser attaches the authenticated user id to the context.
func ContextWithUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userContextKey{}, userID)
}

// UserFromContext extracts the authenticated user id from the context.
func UserFromContext(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(userContextKey{}).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
