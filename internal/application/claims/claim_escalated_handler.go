package claims

import (
	"context"
	"fmt"

	"github.com/brokersuite/backend/internal/domain/claims"
	"github.com/brokersuite/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClaimEscalatedHandler reacts to claim escalations and notifies the
// responsible team. Escalations that reach the ceiling level are treated
// as alerts because no further automatic extension is possible.
type ClaimEscalatedHandler struct {
	logger   *zap.Logger
	notifier EscalationNotifier
}

// EscalationNotifier is the interface for delivering escalation notices.
// Implementations can support different channels (in-app, email, webhook).
type EscalationNotifier interface {
	// NotifyClaimEscalated sends a notification about an escalated claim
	NotifyClaimEscalated(ctx context.Context, notice EscalationNotice) error
}

// EscalationNotice represents a notification about an escalated claim
type EscalationNotice struct {
	TenantID      string `json:"tenant_id"`
	ClaimID       string `json:"claim_id"`
	Number        string `json:"number"`
	PreviousLevel int    `json:"previous_level"`
	NewLevel      int    `json:"new_level"`
	NewDeadline   string `json:"new_deadline"`
	AtCeiling     bool   `json:"at_ceiling"`
}

// NewClaimEscalatedHandler creates a new handler for claim escalation events
func NewClaimEscalatedHandler(logger *zap.Logger) *ClaimEscalatedHandler {
	return &ClaimEscalatedHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending escalation notices
func (h *ClaimEscalatedHandler) WithNotifier(notifier EscalationNotifier) *ClaimEscalatedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *ClaimEscalatedHandler) EventTypes() []string {
	return []string{claims.EventTypeClaimEscalated}
}

// Handle processes a ClaimEscalatedEvent
func (h *ClaimEscalatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	escalated, ok := event.(*claims.ClaimEscalatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", claims.EventTypeClaimEscalated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			claims.EventTypeClaimEscalated, event.EventType())
	}

	atCeiling := escalated.NewLevel >= claims.MaxEscalationLevel

	logFn := h.logger.Info
	if atCeiling {
		// No further deadline extension is possible past the ceiling
		logFn = h.logger.Warn
	}
	logFn("claim escalated",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("claim_id", escalated.ClaimID.String()),
		zap.String("number", escalated.Number),
		zap.Int("previous_level", escalated.PreviousLevel),
		zap.Int("new_level", escalated.NewLevel),
		zap.Time("new_deadline", escalated.NewDeadline),
	)

	if h.notifier == nil {
		return nil
	}

	notice := EscalationNotice{
		TenantID:      event.TenantID().String(),
		ClaimID:       escalated.ClaimID.String(),
		Number:        escalated.Number,
		PreviousLevel: escalated.PreviousLevel,
		NewLevel:      escalated.NewLevel,
		NewDeadline:   escalated.NewDeadline.Format("2006-01-02"),
		AtCeiling:     atCeiling,
	}

	if err := h.notifier.NotifyClaimEscalated(ctx, notice); err != nil {
		h.logger.Error("failed to send escalation notice",
			zap.String("claim_id", notice.ClaimID),
			zap.Error(err),
		)
		// Notification failure must not fail the event handling
	}

	return nil
}

// Ensure ClaimEscalatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ClaimEscalatedHandler)(nil)
