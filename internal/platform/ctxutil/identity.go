package ctxutil

import (
	"context"

	"github.com/yungbote/focusgate-backend/internal/domain/auth"
)

type identityKey struct{}

// WithIdentity attaches the verified caller identity to ctx.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentity returns the verified identity, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey{}).(*auth.Identity); ok {
		return id
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
