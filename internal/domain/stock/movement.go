package stock

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType tags a stock movement with the business event that caused it.
// The tags are purely descriptive: the ledger itself branches only on the
// sign of the quantity.
type MovementType string

const (
	MovementTypeGoodsReceipt       MovementType = "GOODS_RECEIPT"
	MovementTypeGoodsReceiptCancel MovementType = "GOODS_RECEIPT_CANCEL"
	MovementTypeSale               MovementType = "SALE"
	MovementTypeSaleCancel         MovementType = "SALE_CANCEL"
	MovementTypeWastage            MovementType = "WASTAGE"
	MovementTypeTransferIn         MovementType = "TRANSFER_IN"
	MovementTypeTransferOut        MovementType = "TRANSFER_OUT"
	MovementTypeReturn             MovementType = "RETURN"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeGoodsReceipt,
		MovementTypeGoodsReceiptCancel,
		MovementTypeSale,
		MovementTypeSaleCancel,
		MovementTypeWastage,
		MovementTypeTransferIn,
		MovementTypeTransferOut,
		MovementTypeReturn:
		return true
	}
	return false
}

// StockMovement is an immutable record of stock entering or leaving a
// (plant, warehouse) location. Movements are append-only: corrections are
// new, sign-reversed movements referencing the original document.
type StockMovement struct {
	shared.BaseEntity
	TenantID          uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_movement_tenant_time,priority:1"`
	PlantID           uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_movement_location,priority:1"`
	WarehouseID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_movement_location,priority:2"`
	Quantity          int64        `gorm:"not null"` // Signed: positive in, negative out
	Type              MovementType `gorm:"type:varchar(30);not null;index"`
	RelatedDocumentID uuid.UUID    `gorm:"type:uuid;not null;index"`
	ActorID           *uuid.UUID   `gorm:"type:uuid"`
	Description       string       `gorm:"type:varchar(255)"`
	MovementDate      time.Time    `gorm:"type:timestamptz;not null;index:idx_stock_movement_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an immutable movement record
func NewStockMovement(tenantID, plantID, warehouseID uuid.UUID, quantity int64, movementType MovementType, relatedDocumentID uuid.UUID) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if plantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLANT", "Plant ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if relatedDocumentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Related document ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		PlantID:           plantID,
		WarehouseID:       warehouseID,
		Quantity:          quantity,
		Type:              movementType,
		RelatedDocumentID: relatedDocumentID,
		MovementDate:      time.Now(),
	}, nil
}

// WithActor records the user who triggered the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// WithDescription attaches a free-text note
func (m *StockMovement) WithDescription(description string) *StockMovement {
	m.Description = description
	return m
}

// WithMovementDate overrides the movement timestamp
func (m *StockMovement) WithMovementDate(date time.Time) *StockMovement {
	m.MovementDate = date
	return m
}

// IsInbound returns true for movements that increase stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity > 0
}
