/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const redisLoggerComponentName = "RedisCache"

// redisOpTimeout bounds individual redis operations.
const redisOpTimeout = 5 * time.Second

// redisCache implements the internalCacheInterface backed by a redis server.
// Entry expiry is delegated to redis via per key TTLs.
type redisCache[T any] struct {
	name      string
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	mu        sync.Mutex
	hitCount  int64
	missCount int64
}

// newRedisCache creates a new instance of redisCache.
func newRedisCache[T any](name string, ttl time.Duration, redisConfig config.RedisConfig) internalCacheInterface[T] {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, redisLoggerComponentName),
		log.String("name", name))

	cacheTTL := ttl
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL * time.Second
	}

	logger.Debug("Initializing redis cache", log.String("addr", redisConfig.Addr), log.Any("ttl", cacheTTL))

	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	return &redisCache[T]{
		name:      name,
		client:    client,
		ttl:       cacheTTL,
		keyPrefix: "flowstack:cache:" + name + ":",
	}
}

// Set stores a value in redis as a JSON document with the configured TTL.
func (c *redisCache[T]) Set(key CacheKey, value T) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.keyPrefix+key.ToString(), data, c.ttl).Err()
}

// Get retrieves a value from redis.
func (c *redisCache[T]) Get(key CacheKey) (T, bool) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, redisLoggerComponentName),
		log.String("name", c.name))

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var zero T
	data, err := c.client.Get(ctx, c.keyPrefix+key.ToString()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read value from redis", log.String("key", key.ToString()), log.Error(err))
		}
		c.recordMiss()
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logger.Warn("Failed to decode cached value", log.String("key", key.ToString()), log.Error(err))
		c.recordMiss()
		return zero, false
	}

	c.recordHit()
	return value, true
}

// Delete removes an entry from redis.
func (c *redisCache[T]) Delete(key CacheKey) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return c.client.Del(ctx, c.keyPrefix+key.ToString()).Err()
}

// Clear removes all entries belonging to this cache from redis.
func (c *redisCache[T]) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// IsEnabled returns whether the cache is enabled.
func (c *redisCache[T]) IsEnabled() bool {
	return true
}

// GetName returns the name of the cache.
func (c *redisCache[T]) GetName() string {
	return c.name
}

// GetStats returns cache statistics.
func (c *redisCache[T]) GetStats() CacheStat {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalOps := c.hitCount + c.missCount
	var hitRate float64
	if totalOps > 0 {
		hitRate = float64(c.hitCount) / float64(totalOps)
	}

	return CacheStat{
		Enabled:   true,
		HitCount:  c.hitCount,
		MissCount: c.missCount,
		HitRate:   hitRate,
	}
}

// CleanupExpired is a no-op since redis expires entries server side.
func (c *redisCache[T]) CleanupExpired() {
}

func (c *redisCache[T]) recordHit() {
	c.mu.Lock()
	c.hitCount++
	c.mu.Unlock()
}

func (c *redisCache[T]) recordMiss() {
	c.mu.Lock()
	c.missCount++
	c.mu.Unlock()
}
