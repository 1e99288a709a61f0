package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sequenceMaxRetries bounds the retry loop on transient commit failures.
const sequenceMaxRetries = 3

// GormSequenceRepository implements SequenceRepository using GORM.
//
// Allocation is a single atomic upsert: the counter row is created on first
// use and incremented in the same statement, with the new value returned by
// the database. This is deliberately NOT "count existing documents and add
// one" - that reads and writes in two steps and hands out duplicate numbers
// under concurrent requests.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

const allocateSequenceSQL = `
INSERT INTO sequence_counters (id, tenant_id, document_type, period_key, last_value, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT (tenant_id, document_type, period_key)
DO UPDATE SET last_value = sequence_counters.last_value + 1, updated_at = ?
RETURNING last_value`

// Next atomically allocates the next value for the scope. The returned value
// is persisted before this method returns; it is never handed out again even
// if the caller subsequently fails.
func (r *GormSequenceRepository) Next(ctx context.Context, scope numbering.Scope) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 0; attempt < sequenceMaxRetries; attempt++ {
		var lastValue int64
		now := time.Now()
		err := r.db.WithContext(ctx).
			Raw(allocateSequenceSQL,
				uuid.New(), scope.TenantID, scope.DocumentType, scope.PeriodKey, now, now, now).
			Scan(&lastValue).Error
		if err == nil {
			return lastValue, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		lastErr = err
	}
	return 0, errors.Join(shared.ErrSequenceAllocationFailed, lastErr)
}

// Current returns the last allocated value for the scope, or zero if nothing
// has been allocated yet
func (r *GormSequenceRepository) Current(ctx context.Context, scope numbering.Scope) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	var counter numbering.SequenceCounter
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_type = ? AND period_key = ?",
			scope.TenantID, scope.DocumentType, scope.PeriodKey).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.LastValue, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ numbering.SequenceRepository = (*GormSequenceRepository)(nil)
