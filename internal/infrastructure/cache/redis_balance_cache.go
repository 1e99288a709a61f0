package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	balanceKeyPrefix     = "stock:balance:"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisBalanceCache implements stock.BalanceCache using Redis.
// Suitable for distributed deployments where multiple instances serve
// balance queries against the same ledger.
type RedisBalanceCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisBalanceCacheOption is a functional option for configuring the cache
type RedisBalanceCacheOption func(*RedisBalanceCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		c.logger = logger
	}
}

// NewRedisBalanceCache creates a new Redis-based balance cache
func NewRedisBalanceCache(cfg RedisConfig, opts ...RedisBalanceCacheOption) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := &RedisBalanceCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewRedisBalanceCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisBalanceCacheWithClient(client *redis.Client, opts ...RedisBalanceCacheOption) *RedisBalanceCache {
	c := &RedisBalanceCache{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func balanceKey(tenantID, productID, warehouseID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s:%s", balanceKeyPrefix, tenantID, productID, warehouseID)
}

// Get returns the cached balance and whether it was present
func (c *RedisBalanceCache) Get(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*stock.Balance, bool, error) {
	data, err := c.client.Get(ctx, balanceKey(tenantID, productID, warehouseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached balance: %w", err)
	}

	var balance stock.Balance
	if err := json.Unmarshal(data, &balance); err != nil {
		// A corrupt entry is treated as a miss so callers recompute from the ledger
		c.logger.Warn("dropping corrupt cached balance",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return nil, false, nil
	}
	return &balance, true, nil
}

// Set stores a balance with the given TTL
func (c *RedisBalanceCache) Set(ctx context.Context, balance *stock.Balance, ttl time.Duration) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to marshal balance: %w", err)
	}

	key := balanceKey(balance.TenantID, balance.ProductID, balance.WarehouseID)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

// InvalidateProduct drops cached balances for a product across all warehouses
func (c *RedisBalanceCache) InvalidateProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	pattern := fmt.Sprintf("%s%s:%s:*", balanceKeyPrefix, tenantID, productID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan balance keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete balance keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisBalanceCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisBalanceCache implements BalanceCache
var _ stock.BalanceCache = (*RedisBalanceCache)(nil)
