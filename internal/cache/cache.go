/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jerry-enebeli/commissions/config"
	redis_db "github.com/jerry-enebeli/commissions/internal/redis-db"
)

// Cache stores msgpack-encoded values by key.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the value under key into data and reports whether it was
	// found. A miss is not an error.
	Get(ctx context.Context, key string, data interface{}) (bool, error)

	Delete(ctx context.Context, key string) error
}

// RedisCache is a two-tier cache: an in-process TinyLFU in front of an
// optional Redis.
type RedisCache struct {
	cache *cache.Cache
}

// cacheSize is the number of entries the local tier holds.
const cacheSize = 10000

// NewCache builds the cache from configuration. Without a Redis DNS only the
// local tier is used.
func NewCache(cfg *config.Configuration) (Cache, error) {
	if cfg.Redis.Dns == "" {
		return New(nil), nil
	}

	client, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns}, cfg.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	return New(client.Client()), nil
}

// New wraps client, which may be nil.
func New(client redis.UniversalClient) *RedisCache {
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(cacheSize, time.Minute),
	}
	if client != nil {
		opts.Redis = client
	}
	return &RedisCache{cache: cache.New(opts)}
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) (bool, error) {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
