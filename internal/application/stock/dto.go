package stock

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// ChangeStockRequest represents a request to record a stock movement.
// Quantity is signed: positive adds units, negative removes them.
type ChangeStockRequest struct {
	PlantID           uuid.UUID          `json:"plant_id" binding:"required"`
	WarehouseID       uuid.UUID          `json:"warehouse_id" binding:"required"`
	Quantity          int64              `json:"quantity" binding:"required"`
	Type              stock.MovementType `json:"type" binding:"required"`
	RelatedDocumentID uuid.UUID          `json:"related_document_id" binding:"required"`
	ActorID           *uuid.UUID         `json:"actor_id,omitempty"`
	Description       string             `json:"description"`
	MovementDate      time.Time          `json:"movement_date"`
}

// TransferRequest represents a request to move units between warehouses
type TransferRequest struct {
	PlantID           uuid.UUID  `json:"plant_id" binding:"required"`
	FromWarehouseID   uuid.UUID  `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID     uuid.UUID  `json:"to_warehouse_id" binding:"required"`
	Quantity          int64      `json:"quantity" binding:"required,min=1"`
	RelatedDocumentID uuid.UUID  `json:"related_document_id" binding:"required"`
	ActorID           *uuid.UUID `json:"actor_id,omitempty"`
	Description       string     `json:"description"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID                uuid.UUID          `json:"id"`
	PlantID           uuid.UUID          `json:"plant_id"`
	WarehouseID       uuid.UUID          `json:"warehouse_id"`
	Quantity          int64              `json:"quantity"`
	Type              stock.MovementType `json:"type"`
	RelatedDocumentID uuid.UUID          `json:"related_document_id"`
	ActorID           *uuid.UUID         `json:"actor_id,omitempty"`
	Description       string             `json:"description,omitempty"`
	MovementDate      time.Time          `json:"movement_date"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ChangeStockResponse carries the recorded movement and the resulting
// on-hand quantity at its location
type ChangeStockResponse struct {
	Movement    MovementResponse `json:"movement"`
	NewQuantity int64            `json:"new_quantity"`
}

// TransferResponse carries the paired movements of a warehouse transfer
type TransferResponse struct {
	Outbound MovementResponse `json:"outbound"`
	Inbound  MovementResponse `json:"inbound"`
}

// LevelResponse represents an on-hand quantity in API responses
type LevelResponse struct {
	PlantID     uuid.UUID `json:"plant_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMovementResponse(movement *stock.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                movement.ID,
		PlantID:           movement.PlantID,
		WarehouseID:       movement.WarehouseID,
		Quantity:          movement.Quantity,
		Type:              movement.Type,
		RelatedDocumentID: movement.RelatedDocumentID,
		ActorID:           movement.ActorID,
		Description:       movement.Description,
		MovementDate:      movement.MovementDate,
		CreatedAt:         movement.CreatedAt,
	}
}

func toMovementResponses(movements []stock.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = toMovementResponse(&movements[i])
	}
	return responses
}

func toLevelResponse(level *stock.StockLevel) LevelResponse {
	return LevelResponse{
		PlantID:     level.PlantID,
		WarehouseID: level.WarehouseID,
		Quantity:    level.Quantity,
		UpdatedAt:   level.UpdatedAt,
	}
}
