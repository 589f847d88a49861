package middleware

import (
	"context"

	"github.com/talentboard/backend/authz"
)

// Context key type to avoid collisions
type contextKey string

// IdentityKey is the context key for the resolved request identity
const IdentityKey contextKey = "identity"

// WithIdentity adds the resolved identity to the context
func WithIdentity(ctx context.Context, id *authz.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext retrieves the resolved identity from context, or nil
// when the request has not passed the authentication gate
func IdentityFromContext(ctx context.Context) *authz.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if id, ok := val.(*authz.Identity); ok {
			return id
		}
	}
	return nil
}
