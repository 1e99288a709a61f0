package stock

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/brokersuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

const defaultBalanceCacheTTL = 30 * time.Second

// StockService handles the append-only stock ledger and its derived balances
type StockService struct {
	movementRepo    stock.MovementRepository
	policy          stock.Policy
	balanceCache    stock.BalanceCache
	balanceCacheTTL time.Duration
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewStockService creates a new StockService with the permissive default policy
func NewStockService(movementRepo stock.MovementRepository) *StockService {
	return &StockService{
		movementRepo:    movementRepo,
		policy:          stock.DefaultPolicy(),
		balanceCacheTTL: defaultBalanceCacheTTL,
	}
}

// SetPolicy replaces the negative-balance policy
func (s *StockService) SetPolicy(policy stock.Policy) {
	s.policy = policy
}

// SetBalanceCache enables read-through caching of derived balances
func (s *StockService) SetBalanceCache(cache stock.BalanceCache, ttl time.Duration) {
	s.balanceCache = cache
	if ttl > 0 {
		s.balanceCacheTTL = ttl
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// RecordMovement appends a movement to the ledger. The current balance is
// derived first so the policy can be checked and the post-movement balance
// reported without re-reading the ledger.
func (s *StockService) RecordMovement(ctx context.Context, tenantID uuid.UUID, req RecordMovementRequest) (*RecordMovementResponse, error) {
	movement, err := stock.NewStockMovement(
		tenantID,
		req.ProductID,
		req.WarehouseID,
		stock.MovementType(req.MovementType),
		req.Quantity,
		req.UnitCost,
	)
	if err != nil {
		return nil, err
	}

	if req.Reference != "" {
		movement.WithReference(req.Reference)
	}
	if req.Reason != "" {
		movement.WithReason(req.Reason)
	}
	if req.InterventionID != nil {
		movement.WithInterventionID(*req.InterventionID)
	}
	if req.OperatorID != nil {
		movement.WithOperatorID(*req.OperatorID)
	}
	if req.OccurredAt != nil {
		movement.WithOccurredAt(*req.OccurredAt)
	}

	current, err := s.movementRepo.BalanceFor(ctx, tenantID, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Check(current, movement); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Append(ctx, movement); err != nil {
		return nil, err
	}

	balanceAfter := current.QuantityOnHand.Add(movement.SignedQuantity())

	s.invalidateBalances(ctx, tenantID, req.ProductID)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockMovement(ctx, tenantID, req.WarehouseID, movement.MovementType.String())
	}

	if s.eventPublisher != nil {
		events := []shared.DomainEvent{stock.NewStockMovementRecordedEvent(movement, balanceAfter)}
		if balanceAfter.IsNegative() {
			events = append(events, stock.NewStockWentNegativeEvent(movement, balanceAfter))
		}
		// Event delivery is best effort; the movement is already durable
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	return &RecordMovementResponse{
		Movement:     ToMovementResponse(movement),
		BalanceAfter: balanceAfter,
	}, nil
}

// GetMovement retrieves a single ledger movement
func (s *StockService) GetMovement(ctx context.Context, tenantID, movementID uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByIDForTenant(ctx, tenantID, movementID)
	if err != nil {
		return nil, err
	}
	response := ToMovementResponse(movement)
	return &response, nil
}

// ListMovements retrieves ledger movements with filtering and pagination
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := stock.MovementFilter{
		Filter:      shared.DefaultFilter(),
		ProductID:   filter.ProductID,
		WarehouseID: filter.WarehouseID,
		From:        filter.From,
		To:          filter.To,
	}
	if filter.MovementType != nil {
		mt := stock.MovementType(*filter.MovementType)
		domainFilter.MovementType = &mt
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	movements, total, err := s.movementRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// GetBalance derives the current balance for one product in one warehouse,
// reading through the balance cache when one is configured
func (s *StockService) GetBalance(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*BalanceResponse, error) {
	if s.balanceCache != nil {
		if cached, found, err := s.balanceCache.Get(ctx, tenantID, productID, warehouseID); err == nil && found {
			response := ToBalanceResponse(*cached)
			return &response, nil
		}
	}

	balance, err := s.movementRepo.BalanceFor(ctx, tenantID, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	if s.balanceCache != nil {
		// Cache failures degrade to recomputation on the next read
		_ = s.balanceCache.Set(ctx, &balance, s.balanceCacheTTL)
	}

	response := ToBalanceResponse(balance)
	return &response, nil
}

// WarehouseBalances derives the balance of every product with ledger activity
// in the warehouse. Always computed from the ledger; the cache only serves
// single-product lookups.
func (s *StockService) WarehouseBalances(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]BalanceResponse, error) {
	balances, err := s.movementRepo.BalancesForWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	return ToBalanceResponses(balances), nil
}

func (s *StockService) invalidateBalances(ctx context.Context, tenantID, productID uuid.UUID) {
	if s.balanceCache == nil {
		return
	}
	// Stale entries expire on their own TTL if invalidation fails
	_ = s.balanceCache.InvalidateProduct(ctx, tenantID, productID)
}
