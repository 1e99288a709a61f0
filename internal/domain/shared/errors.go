package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// Numbering errors
	ErrSequenceAllocationFailed = NewDomainError("SEQUENCE_ALLOCATION_FAILED", "Could not allocate the next document number")
	ErrSequenceOverflow         = NewDomainError("SEQUENCE_OVERFLOW", "Document numbering capacity exceeded for this period")

	// Lifecycle errors
	ErrInvalidTransition  = NewDomainError("INVALID_TRANSITION", "Transition not allowed from the current state")
	ErrPreconditionNotMet = NewDomainError("PRECONDITION_NOT_MET", "A required precondition for this transition is not met")

	// Stock errors
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)
