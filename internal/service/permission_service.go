package service

import (
	"context"
	"sync"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type PermissionService struct {
	repo  *repository.Repository
	cache PermissionCache
	log   *zap.Logger

	// epoch отличает поколения этого процесса от записей, оставшихся в Redis после рестарта.
	epoch uint64
	mu    sync.Mutex
	gens  map[uint]uint64
}

func NewPermissionService(repo *repository.Repository, permCache PermissionCache, log *zap.Logger) *PermissionService {
	if permCache == nil {
		permCache = noopPermissionCache{}
	}
	return &PermissionService{
		repo:  repo,
		cache: permCache,
		log:   log,
		epoch: uint64(time.Now().UnixNano()),
		gens:  make(map[uint]uint64),
	}
}

func (s *PermissionService) GetAll(ctx context.Context) ([]models.Permission, error) {
	return s.repo.Permissions.List(ctx)
}

func (s *PermissionService) generation(userID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch + s.gens[userID]
}

// NamesForUser читает права через кэш. Запись с чужим поколением считается промахом:
// набор, прочитанный до отзыва права и сохранённый после Invalidate, не будет использован.
func (s *PermissionService) NamesForUser(ctx context.Context, userID uint) ([]string, error) {
	gen := s.generation(userID)
	if set, ok := s.cache.Get(ctx, userID); ok && set.Generation == gen {
		return set.Names, nil
	}
	names, err := s.repo.Permissions.NamesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, cache.PermissionSet{Generation: gen, Names: names})
	return names, nil
}

// HasPermission проверяет выданное право; роль admin здесь не учитывается.
func (s *PermissionService) HasPermission(ctx context.Context, userID uint, name string) (bool, error) {
	names, err := s.NamesForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate вызывается после коммита изменения прав.
func (s *PermissionService) Invalidate(ctx context.Context, userID uint) {
	s.mu.Lock()
	s.gens[userID]++
	s.mu.Unlock()
	s.cache.Invalidate(ctx, userID)
}
