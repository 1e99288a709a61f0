package claims

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
)

// IsBusinessDay returns true for Monday through Friday. Public holidays are
// not consulted; regulatory deadlines in this product are weekend-aware only.
func IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// AddBusinessDays returns the date count business days after start, skipping
// Saturdays and Sundays. A count of zero returns start unchanged. The result
// is never a weekend date.
func AddBusinessDays(start time.Time, count int) (time.Time, error) {
	if count < 0 {
		return time.Time{}, shared.NewDomainError("INVALID_DAY_COUNT", "Business day count cannot be negative")
	}
	d := start
	for added := 0; added < count; {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			added++
		}
	}
	return d, nil
}

// EscalationWindowDays is the regulatory response window granted at each
// escalation level.
const EscalationWindowDays = 10

// MaxEscalationLevel is the highest escalation level a claim can reach.
const MaxEscalationLevel = 3

// ComputeDeadline returns the response deadline for a claim at the given
// escalation level. Each level consumes a full window, so level 2 is twenty
// business days after reception.
func ComputeDeadline(receptionDate time.Time, level int) (time.Time, error) {
	if level < 1 || level > MaxEscalationLevel {
		return time.Time{}, shared.NewDomainError("INVALID_ESCALATION_LEVEL", "Escalation level must be between 1 and 3")
	}
	return AddBusinessDays(receptionDate, level*EscalationWindowDays)
}
