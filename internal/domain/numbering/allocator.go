package numbering

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Allocator turns sequence allocations into formatted document numbers.
// Allocation and formatting are deliberately one operation: a caller never
// sees a raw sequence value, only the final {prefix}-{period}-{value} string.
type Allocator struct {
	sequences SequenceRepository
	width     int
}

// NewAllocator creates an allocator with the default sequence width
func NewAllocator(sequences SequenceRepository) *Allocator {
	return &Allocator{
		sequences: sequences,
		width:     DefaultWidth,
	}
}

// NewAllocatorWithWidth creates an allocator with an explicit sequence width
func NewAllocatorWithWidth(sequences SequenceRepository, width int) (*Allocator, error) {
	if width < 1 {
		return nil, shared.NewDomainError("INVALID_WIDTH", "Width must be at least 1")
	}
	return &Allocator{
		sequences: sequences,
		width:     width,
	}, nil
}

// NextNumber allocates the next number for the tenant, document type and the
// calendar year of at. Each allocated value is consumed even if the caller
// later fails: numbers are never returned to the pool.
func (a *Allocator) NextNumber(ctx context.Context, tenantID uuid.UUID, docType DocumentType, at time.Time) (string, error) {
	scope := NewYearScope(tenantID, docType, at)
	value, err := a.sequences.Next(ctx, scope)
	if err != nil {
		return "", err
	}
	return FormatWidth(docType, scope.PeriodKey, value, a.width)
}

// CurrentValue returns the last allocated raw value for the scope, 0 if the
// scope has never allocated
func (a *Allocator) CurrentValue(ctx context.Context, tenantID uuid.UUID, docType DocumentType, at time.Time) (int64, error) {
	return a.sequences.Current(ctx, NewYearScope(tenantID, docType, at))
}
