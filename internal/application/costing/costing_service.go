package costing

import (
	"context"
	"errors"

	"github.com/nursery-erp/backend/internal/domain/catalog"
	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CostingService manages production batches and matches sale lines to
// their cost of goods sold
type CostingService struct {
	plantRepo      catalog.PlantRepository
	batchRepo      production.BatchRepository
	converter      *inflation.Converter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCostingService creates a new CostingService
func NewCostingService(
	plantRepo catalog.PlantRepository,
	batchRepo production.BatchRepository,
	converter *inflation.Converter,
	logger *zap.Logger,
) *CostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostingService{
		plantRepo: plantRepo,
		batchRepo: batchRepo,
		converter: converter,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CostingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CostingService) publishDomainEvents(ctx context.Context, batch *production.ProductionBatch) {
	if s.eventPublisher == nil {
		return
	}
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	batch.ClearDomainEvents()
}

// StartBatch opens a new production batch with an empty cost pool
func (s *CostingService) StartBatch(ctx context.Context, tenantID uuid.UUID, req StartBatchRequest) (*BatchResponse, error) {
	batch, err := production.NewProductionBatch(tenantID, req.PlantTypeID, req.PlantVarietyID, req.StartDate, req.InitialQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, batch)
	return toBatchResponse(batch), nil
}

// GetBatch retrieves a batch by ID
func (s *CostingService) GetBatch(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// ListBatches lists batches for a tenant
func (s *CostingService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(batches), nil
}

// ListActiveBatches lists batches that still hold units
func (s *CostingService) ListActiveBatches(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindActiveForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(batches), nil
}

// AllocateCost assigns a cost amount to a batch's pool. The pool only
// grows; a correction is a further allocation, never a removal.
func (s *CostingService) AllocateCost(ctx context.Context, tenantID, batchID uuid.UUID, req AllocateCostRequest) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}

	cost, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	if err := batch.AddCost(cost, req.At); err != nil {
		return nil, err
	}

	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, batch)
	return toBatchResponse(batch), nil
}

// ConsumeFromBatch removes units from a batch (harvest, sale, wastage)
func (s *CostingService) ConsumeFromBatch(ctx context.Context, tenantID, batchID uuid.UUID, req ConsumeRequest) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	if err := batch.Consume(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, batch)
	return toBatchResponse(batch), nil
}

// MatchCostForSale resolves the cost of goods sold for a sale line.
//
// The sold plant determines a (type, variety) pair; the batch with the
// latest start date on or before the sale date supplies the unit cost.
// When no batch qualifies the cost is zero, logged as a warning, so a sale
// of untracked stock still posts instead of blocking the sale. When a
// target date is given the nominal cost is additionally restated from its
// cost date, the matched batch's start date, to that date's price level.
// Batch recency is a best-effort approximation of lot supply, not per-unit
// lot tracking.
func (s *CostingService) MatchCostForSale(ctx context.Context, tenantID uuid.UUID, req CostMatchRequest) (*CostMatchResponse, error) {
	plant, err := s.plantRepo.FindByIDForTenant(ctx, tenantID, req.PlantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownReference
		}
		return nil, err
	}

	batch, err := s.batchRepo.FindLatestMatch(ctx, tenantID, plant.PlantTypeID, plant.PlantVarietyID, req.SaleDate)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("no production batch matches sale, costing at zero",
				zap.String("tenant_id", tenantID.String()),
				zap.String("plant_id", req.PlantID.String()),
				zap.Time("sale_date", req.SaleDate),
			)
			return &CostMatchResponse{
				UnitCost:    decimal.Zero,
				Quantity:    req.Quantity,
				CostDate:    req.SaleDate,
				NominalCost: decimal.Zero,
				RealCost:    decimal.Zero,
			}, nil
		}
		return nil, err
	}

	unitCost := batch.UnitCost()
	costDate := batch.StartDate
	if batch.IsDepleted() {
		s.logger.Warn("matched batch is depleted, unit cost approximated as zero",
			zap.String("tenant_id", tenantID.String()),
			zap.String("batch_id", batch.ID.String()),
		)
		// Zero-cost fallback: the cost carries the sale's own date, as the
		// batch's start date no longer prices anything.
		costDate = req.SaleDate
	}

	nominal := unitCost.Mul(decimal.NewFromInt(req.Quantity))
	real := nominal
	if !req.TargetDate.IsZero() {
		real, err = s.converter.RealValue(ctx, tenantID, nominal, batch.StartDate, req.TargetDate)
		if err != nil {
			return nil, err
		}
	}

	batchID := batch.ID
	return &CostMatchResponse{
		MatchedBatchID: &batchID,
		UnitCost:       unitCost,
		Quantity:       req.Quantity,
		CostDate:       costDate,
		NominalCost:    nominal,
		RealCost:       real,
	}, nil
}

func toBatchResponses(batches []production.ProductionBatch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = *toBatchResponse(&batches[i])
	}
	return responses
}
