package event

import (
	"context"

	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BatchAuditHandler logs production batch lifecycle events. Cost pool changes
// feed COGS for every later sale of the batch, so the audit trail records
// each pool mutation with its aggregate and tenant.
type BatchAuditHandler struct {
	logger *zap.Logger
}

// NewBatchAuditHandler creates a new BatchAuditHandler
func NewBatchAuditHandler(logger *zap.Logger) *BatchAuditHandler {
	return &BatchAuditHandler{logger: logger.Named("batch_audit")}
}

// Handle logs the event
func (h *BatchAuditHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", e.EventID().String()),
		zap.String("batch_id", e.AggregateID().String()),
		zap.String("tenant_id", e.TenantID().String()),
		zap.Time("occurred_at", e.OccurredAt()),
	}

	switch ev := e.(type) {
	case *production.CostAllocatedEvent:
		fields = append(fields,
			zap.String("amount", ev.Amount.String()),
			zap.String("cost_pool", ev.CostPool.String()),
		)
	case *production.BatchConsumedEvent:
		fields = append(fields,
			zap.Int64("quantity", ev.Quantity),
			zap.Int64("remaining", ev.RemainingQuantity),
		)
	case *production.BatchDepletedEvent:
		h.logger.Warn("batch depleted with residual cost pool", fields...)
		return nil
	}

	h.logger.Info(e.EventType(), fields...)
	return nil
}

// EventTypes returns the batch lifecycle event types
func (h *BatchAuditHandler) EventTypes() []string {
	return []string{
		production.EventTypeBatchStarted,
		production.EventTypeCostAllocated,
		production.EventTypeBatchConsumed,
		production.EventTypeBatchDepleted,
	}
}

// Ensure BatchAuditHandler implements EventHandler
var _ shared.EventHandler = (*BatchAuditHandler)(nil)
