package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BalanceCache caches derived stock balances. The movement ledger stays the
// source of truth; a cache miss or error always falls back to recomputation.
type BalanceCache interface {
	// Get returns the cached balance and whether it was present.
	Get(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*Balance, bool, error)

	// Set stores a balance with the given TTL.
	Set(ctx context.Context, balance *Balance, ttl time.Duration) error

	// InvalidateProduct drops every cached balance for a product across all
	// warehouses of the tenant. Called after a movement is appended.
	InvalidateProduct(ctx context.Context, tenantID, productID uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}
