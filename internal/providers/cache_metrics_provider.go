package providers

import (
	"strings"

	"github.com/KanoeWallet/Kanoe/internal/structures"
)

// MetricsCacheProvider counts hits and misses per key family. Read keys look
// like "v12:plans:0:50"; the family is "plans".
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(keyFamily(key))
	} else {
		c.metrics.IncCacheMisses(keyFamily(key))
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// keyFamily drops the state version prefix and keeps the first segment.
func keyFamily(key string) string {
	if strings.HasPrefix(key, "v") {
		if i := strings.IndexByte(key, ':'); i > 1 && isDigits(key[1:i]) {
			key = key[i+1:]
		}
	}
	if i := strings.IndexByte(key, ':'); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "unknown"
	}
	return key
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NewInstrumentedCacheProvider wraps the configured cache with hit/miss counters.
// A disabled cache is returned bare so it does not report a miss on every read.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
