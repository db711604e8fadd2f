package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// PermissionSet хранит имена прав вместе с поколением, на котором они были прочитаны.
type PermissionSet struct {
	Generation uint64   `json:"gen"`
	Names      []string `json:"names"`
}

func (p PermissionSet) clone() PermissionSet {
	names := append([]string(nil), p.Names...)
	if names == nil {
		names = []string{}
	}
	return PermissionSet{Generation: p.Generation, Names: names}
}

// LocalPermissionCache хранит права в памяти процесса.
type LocalPermissionCache struct {
	cache *ristretto.Cache[uint64, PermissionSet]
	ttl   time.Duration
}

func NewLocalPermissionCache(ttl time.Duration) (*LocalPermissionCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, PermissionSet]{
		NumCounters: 1e4,
		MaxCost:     1 << 10, // по одной единице на пользователя
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &LocalPermissionCache{cache: c, ttl: ttl}, nil
}

func (c *LocalPermissionCache) Get(_ context.Context, userID uint) (PermissionSet, bool) {
	set, ok := c.cache.Get(uint64(userID))
	if !ok {
		return PermissionSet{}, false
	}
	return set.clone(), true
}

func (c *LocalPermissionCache) Set(_ context.Context, userID uint, set PermissionSet) {
	c.cache.SetWithTTL(uint64(userID), set.clone(), 1, c.ttl)
	c.cache.Wait()
}

func (c *LocalPermissionCache) Invalidate(_ context.Context, userID uint) {
	c.cache.Del(uint64(userID))
}

func (c *LocalPermissionCache) Close() {
	c.cache.Close()
}
