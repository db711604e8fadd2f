package service

import (
	"context"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/models"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID    uint
	Username  string
	Role      models.Role
	FirstName string
	LastName  string
	ID        string
	Exp       time.Time
}

type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type TokenProvider interface {
	SignAccess(ctx context.Context, u *models.User, ttl time.Duration) (token string, exp time.Time, err error)
	SignRefresh(ctx context.Context, userID uint, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
	ParseAndValidateRefresh(ctx context.Context, token string) (uint, error)
}

// PermissionCache хранит набор имён прав пользователя.
type PermissionCache interface {
	Get(ctx context.Context, userID uint) (cache.PermissionSet, bool)
	Set(ctx context.Context, userID uint, set cache.PermissionSet)
	Invalidate(ctx context.Context, userID uint)
}

type noopPermissionCache struct{}

func (noopPermissionCache) Get(context.Context, uint) (cache.PermissionSet, bool) {
	return cache.PermissionSet{}, false
}
func (noopPermissionCache) Set(context.Context, uint, cache.PermissionSet) {}
func (noopPermissionCache) Invalidate(context.Context, uint)               {}
