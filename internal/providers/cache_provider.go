package providers

import (
	"context"
	"time"
	"unsafe"

	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL     = 5 * time.Second
	redisCommandTimeout = 200 * time.Millisecond
	redisKeyPrefix      = "kanoe:"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func cacheTTL(conf *structures.Config) time.Duration {
	if conf.Cache.TTL <= 0 {
		return defaultCacheTTL
	}
	return conf.Cache.TTL
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}
	if conf.Cache.Driver == "redis" {
		return NewRedisCacheProvider(conf, logger)
	}
	if conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(cacheTTL(conf).Seconds()), 1)

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// The result must only be read; freecache copies keys on Set.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

// RedisCacheProvider shares read responses between several daemon instances.
// Redis failures degrade to cache misses.
type RedisCacheProvider struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

func NewRedisCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Cache.Redis.Addr,
		Password:     conf.Cache.Redis.Password,
		DB:           conf.Cache.Redis.DB,
		ReadTimeout:  redisCommandTimeout,
		WriteTimeout: redisCommandTimeout,
	})
	logger.Infof(TypeApp, "Redis cache initialized: %s db=%d", conf.Cache.Redis.Addr, conf.Cache.Redis.DB)
	return &RedisCacheProvider{client: client, ttl: cacheTTL(conf), logger: logger}
}

func (c *RedisCacheProvider) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCommandTimeout)
	defer cancel()
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debugf(TypeApp, "redis get %s: %s", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCacheProvider) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCommandTimeout)
	defer cancel()
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Debugf(TypeApp, "redis set %s: %s", key, err)
	}
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
