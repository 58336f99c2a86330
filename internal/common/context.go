package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// UserIDKey carries the authenticated requester's ID, when one is present.
const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the requester ID stashed by the identity
// middleware, or nil for anonymous requests.
func UserIDFromContext(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return &id
	}
	return nil
}

// WithUserID stashes the requester ID on the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
