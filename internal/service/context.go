package service

import (
	"context"

	"pos-service/internal/models"
)

type ctxKey string

const (
	ctxIdentityKey ctxKey = "identity"
	ctxClientIDKey ctxKey = "clientID"
)

// Identity описывает вызывающего, проверенного по access-токену.
type Identity struct {
	UserID   uint
	Username string
	Role     models.Role
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxIdentityKey).(Identity)
	return v, ok
}

func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxClientIDKey, id)
}

func ClientIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxClientIDKey).(string)
	return v, ok && v != ""
}

func requireAuth(ctx context.Context) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID == 0 {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}
