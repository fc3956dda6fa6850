package stock

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService records stock movements and maintains the on-hand level
// projection. On-hand state is only ever changed through movements; the
// movement log is the source of truth and the levels are derived from it.
type StockService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(txScope TransactionScope, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{txScope: txScope, logger: logger}
}

// ChangeStock records a signed movement and adjusts the on-hand level in
// one transaction. The level guard runs before the append: a movement that
// would drive the quantity negative is rejected with ErrInsufficientStock
// and nothing is written.
func (s *StockService) ChangeStock(ctx context.Context, tenantID uuid.UUID, req ChangeStockRequest) (*ChangeStockResponse, error) {
	movement, err := stock.NewStockMovement(tenantID, req.PlantID, req.WarehouseID, req.Quantity, req.Type, req.RelatedDocumentID)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		movement.WithActor(*req.ActorID)
	}
	if req.Description != "" {
		movement.WithDescription(req.Description)
	}
	if !req.MovementDate.IsZero() {
		movement.WithMovementDate(req.MovementDate)
	}

	var newQuantity int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LevelRepo().ApplyDelta(ctx, tenantID, req.PlantID, req.WarehouseID, req.Quantity); err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		quantity, err := repos.LevelRepo().GetQuantity(ctx, tenantID, req.PlantID, req.WarehouseID)
		if err != nil {
			return err
		}
		newQuantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plant_id", req.PlantID.String()),
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("type", req.Type.String()),
		zap.Int64("quantity", req.Quantity),
	)

	return &ChangeStockResponse{
		Movement:    toMovementResponse(movement),
		NewQuantity: newQuantity,
	}, nil
}

// Transfer moves units between warehouses as a paired TRANSFER_OUT and
// TRANSFER_IN sharing one document reference. Both legs and both level
// adjustments commit atomically; an insufficient source level rejects the
// whole transfer.
func (s *StockService) Transfer(ctx context.Context, tenantID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Transfer quantity must be positive")
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouse must differ")
	}

	outbound, err := stock.NewStockMovement(tenantID, req.PlantID, req.FromWarehouseID, -req.Quantity, stock.MovementTypeTransferOut, req.RelatedDocumentID)
	if err != nil {
		return nil, err
	}
	inbound, err := stock.NewStockMovement(tenantID, req.PlantID, req.ToWarehouseID, req.Quantity, stock.MovementTypeTransferIn, req.RelatedDocumentID)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		outbound.WithActor(*req.ActorID)
		inbound.WithActor(*req.ActorID)
	}
	if req.Description != "" {
		outbound.WithDescription(req.Description)
		inbound.WithDescription(req.Description)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LevelRepo().ApplyDelta(ctx, tenantID, req.PlantID, req.FromWarehouseID, -req.Quantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().ApplyDelta(ctx, tenantID, req.PlantID, req.ToWarehouseID, req.Quantity); err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, outbound); err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, inbound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plant_id", req.PlantID.String()),
		zap.String("from_warehouse_id", req.FromWarehouseID.String()),
		zap.String("to_warehouse_id", req.ToWarehouseID.String()),
		zap.Int64("quantity", req.Quantity),
	)

	return &TransferResponse{
		Outbound: toMovementResponse(outbound),
		Inbound:  toMovementResponse(inbound),
	}, nil
}

// CurrentQuantity returns the on-hand quantity at a location, zero when
// the location has never moved stock
func (s *StockService) CurrentQuantity(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID) (int64, error) {
	var quantity int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := repos.LevelRepo().GetQuantity(ctx, tenantID, plantID, warehouseID)
		if err != nil {
			return err
		}
		quantity = q
		return nil
	})
	return quantity, err
}

// MovementHistory lists movements for a location, newest first
func (s *StockService) MovementHistory(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	var movements []stock.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.MovementRepo().FindByLocation(ctx, tenantID, plantID, warehouseID, filter)
		if err != nil {
			return err
		}
		movements = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// MovementsForDocument lists the movements a business document caused
func (s *StockService) MovementsForDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]MovementResponse, error) {
	var movements []stock.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.MovementRepo().FindByDocument(ctx, tenantID, relatedDocumentID)
		if err != nil {
			return err
		}
		movements = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// MovementsInRange lists movements within a date range
func (s *StockService) MovementsInRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]MovementResponse, error) {
	var movements []stock.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.MovementRepo().FindByDateRange(ctx, tenantID, start, end, filter)
		if err != nil {
			return err
		}
		movements = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// ListLevels lists on-hand quantities for a tenant
func (s *StockService) ListLevels(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LevelResponse, error) {
	var levels []stock.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.LevelRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		levels = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	responses := make([]LevelResponse, len(levels))
	for i := range levels {
		responses[i] = toLevelResponse(&levels[i])
	}
	return responses, nil
}
