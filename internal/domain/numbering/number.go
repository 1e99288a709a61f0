package numbering

import (
	"fmt"

	"github.com/brokersuite/backend/internal/domain/shared"
)

// DefaultWidth is the zero-padded width of the sequence part of a document
// number, e.g. FAC-2025-00001.
const DefaultWidth = 5

// MaxValue returns the largest sequence value representable at the given width
func MaxValue(width int) int64 {
	max := int64(1)
	for i := 0; i < width; i++ {
		max *= 10
	}
	return max - 1
}

// Format renders a document number as {prefix}-{period}-{zero-padded value}
// using the default width. It is deterministic and performs no I/O.
// A value beyond the width's capacity returns ErrSequenceOverflow: truncating
// would collide with an earlier number, so the caller must widen explicitly.
func Format(docType DocumentType, period string, value int64) (string, error) {
	return FormatWidth(docType, period, value, DefaultWidth)
}

// FormatWidth renders a document number with an explicit sequence width.
// Used for operator-driven recovery once a period outgrows the default width.
func FormatWidth(docType DocumentType, period string, value int64, width int) (string, error) {
	if !docType.IsValid() {
		return "", shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type")
	}
	if period == "" {
		return "", shared.NewDomainError("INVALID_PERIOD", "Period cannot be empty")
	}
	if value < 1 {
		return "", shared.NewDomainError("INVALID_SEQUENCE_VALUE", "Sequence value must be at least 1")
	}
	if width < 1 {
		return "", shared.NewDomainError("INVALID_WIDTH", "Width must be at least 1")
	}
	if value > MaxValue(width) {
		return "", shared.ErrSequenceOverflow
	}
	return fmt.Sprintf("%s-%s-%0*d", docType.Prefix(), period, width, value), nil
}
