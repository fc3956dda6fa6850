package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// InflationRateSortFields contains allowed sort fields for inflation rates
var InflationRateSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"year":       true,
	"month":      true,
	"rate":       true,
}

// PlantSortFields contains allowed sort fields for plants
var PlantSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"plant_type_id":    true,
	"plant_variety_id": true,
}

// ProductionBatchSortFields contains allowed sort fields for production batches
var ProductionBatchSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"plant_type_id":    true,
	"plant_variety_id": true,
	"start_date":       true,
	"initial_quantity": true,
	"current_quantity": true,
	"cost_pool":        true,
	"last_cost_update": true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"plant_id":      true,
	"warehouse_id":  true,
	"quantity":      true,
	"type":          true,
	"movement_date": true,
}

// StockLevelSortFields contains allowed sort fields for stock levels
var StockLevelSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"plant_id":     true,
	"warehouse_id": true,
	"quantity":     true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"counterparty_id": true,
	"direction":       true,
	"amount":          true,
	"entry_date":      true,
}
