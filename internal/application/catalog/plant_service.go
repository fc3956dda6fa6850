package catalog

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/catalog"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlantResponse represents a plant in API responses
type PlantResponse struct {
	ID             uuid.UUID `json:"id"`
	PlantTypeID    uuid.UUID `json:"plant_type_id"`
	PlantVarietyID uuid.UUID `json:"plant_variety_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreatePlantRequest represents a request to register a plant
type CreatePlantRequest struct {
	PlantTypeID    uuid.UUID `json:"plant_type_id" binding:"required"`
	PlantVarietyID uuid.UUID `json:"plant_variety_id" binding:"required"`
	Name           string    `json:"name" binding:"required,max=255"`
}

// PlantService manages the plant read model costing resolves sales through
type PlantService struct {
	plantRepo catalog.PlantRepository
	logger    *zap.Logger
}

// NewPlantService creates a new PlantService
func NewPlantService(plantRepo catalog.PlantRepository, logger *zap.Logger) *PlantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlantService{plantRepo: plantRepo, logger: logger}
}

// CreatePlant registers a plant with its (type, variety) pair
func (s *PlantService) CreatePlant(ctx context.Context, tenantID uuid.UUID, req CreatePlantRequest) (*PlantResponse, error) {
	plant, err := catalog.NewPlant(tenantID, req.PlantTypeID, req.PlantVarietyID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.plantRepo.Save(ctx, plant); err != nil {
		return nil, err
	}
	return toPlantResponse(plant), nil
}

// GetPlant retrieves a plant by ID
func (s *PlantService) GetPlant(ctx context.Context, tenantID, plantID uuid.UUID) (*PlantResponse, error) {
	plant, err := s.plantRepo.FindByIDForTenant(ctx, tenantID, plantID)
	if err != nil {
		return nil, err
	}
	return toPlantResponse(plant), nil
}

// ListPlants lists plants for a tenant
func (s *PlantService) ListPlants(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PlantResponse, error) {
	plants, err := s.plantRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PlantResponse, len(plants))
	for i := range plants {
		responses[i] = *toPlantResponse(&plants[i])
	}
	return responses, nil
}

func toPlantResponse(plant *catalog.Plant) *PlantResponse {
	return &PlantResponse{
		ID:             plant.ID,
		PlantTypeID:    plant.PlantTypeID,
		PlantVarietyID: plant.PlantVarietyID,
		Name:           plant.Name,
		CreatedAt:      plant.CreatedAt,
		UpdatedAt:      plant.UpdatedAt,
	}
}
