package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryBalanceCache implements stock.BalanceCache using in-memory storage.
// Suitable for single-instance deployments and tests; use the Redis cache
// when several instances serve the same ledger.
type InMemoryBalanceCache struct {
	entries sync.Map // map[string]*balanceEntry
	logger  *zap.Logger
	stopCh  chan struct{} // Channel to stop the cleanup goroutine
	stopped int32         // Atomic flag to track if cache is stopped

	// Stats for monitoring
	hits   int64
	misses int64
}

// balanceEntry wraps a cached balance with expiration time
type balanceEntry struct {
	value     *stock.Balance
	expiresAt time.Time
}

func (e *balanceEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryBalanceCacheOption is a functional option for configuring the cache
type InMemoryBalanceCacheOption func(*InMemoryBalanceCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryBalanceCacheOption {
	return func(c *InMemoryBalanceCache) {
		c.logger = logger
	}
}

// NewInMemoryBalanceCache creates a new in-memory balance cache
func NewInMemoryBalanceCache(opts ...InMemoryBalanceCacheOption) *InMemoryBalanceCache {
	cache := &InMemoryBalanceCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached balance
func (c *InMemoryBalanceCache) Get(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*stock.Balance, bool, error) {
	key := balanceKey(tenantID, productID, warehouseID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*balanceEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true, nil
		}
		// Expired, remove from cache
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// Set stores a balance with the given TTL
func (c *InMemoryBalanceCache) Set(ctx context.Context, balance *stock.Balance, ttl time.Duration) error {
	if balance == nil {
		return nil
	}

	key := balanceKey(balance.TenantID, balance.ProductID, balance.WarehouseID)
	c.entries.Store(key, &balanceEntry{
		value:     balance,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateProduct drops cached balances for a product across all warehouses
func (c *InMemoryBalanceCache) InvalidateProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	prefix := balanceKeyPrefix + tenantID.String() + ":" + productID.String() + ":"
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryBalanceCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryBalanceCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryBalanceCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryBalanceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*balanceEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

// Ensure InMemoryBalanceCache implements BalanceCache
var _ stock.BalanceCache = (*InMemoryBalanceCache)(nil)
