package persistence

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/application/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleLineRow maps the sale_lines table written by the surrounding order
// flow. Reports only read it, so the row type lives here instead of in a
// domain package.
type SaleLineRow struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_line_tenant_date,priority:1"`
	PlantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity int64           `gorm:"not null"`
	Revenue  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SaleDate time.Time       `gorm:"type:timestamptz;not null;index:idx_sale_line_tenant_date,priority:2"`
}

// TableName returns the table name for GORM
func (SaleLineRow) TableName() string {
	return "sale_lines"
}

// ExpenseLineRow maps the expense_lines table
type ExpenseLineRow struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_expense_line_tenant_date,priority:1"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"type:varchar(100)"`
	ExpenseDate time.Time       `gorm:"type:timestamptz;not null;index:idx_expense_line_tenant_date,priority:2"`
}

// TableName returns the table name for GORM
func (ExpenseLineRow) TableName() string {
	return "expense_lines"
}

// GormSalesReader implements report.SalesReader over the sale_lines table
type GormSalesReader struct {
	db *gorm.DB
}

// NewGormSalesReader creates a new GormSalesReader
func NewGormSalesReader(db *gorm.DB) *GormSalesReader {
	return &GormSalesReader{db: db}
}

// SaleLines lists sale lines for a period, ordered by sale date
func (r *GormSalesReader) SaleLines(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]report.SaleLine, error) {
	var rows []SaleLineRow
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_date >= ? AND sale_date <= ?", tenantID, start, end).
		Order("sale_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]report.SaleLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, report.SaleLine{
			PlantID:  row.PlantID,
			Quantity: row.Quantity,
			Revenue:  row.Revenue,
			SaleDate: row.SaleDate,
		})
	}
	return lines, nil
}

// GormExpenseReader implements report.ExpenseReader over the expense_lines table
type GormExpenseReader struct {
	db *gorm.DB
}

// NewGormExpenseReader creates a new GormExpenseReader
func NewGormExpenseReader(db *gorm.DB) *GormExpenseReader {
	return &GormExpenseReader{db: db}
}

// ExpenseLines lists expense lines for a period, ordered by expense date
func (r *GormExpenseReader) ExpenseLines(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]report.ExpenseLine, error) {
	var rows []ExpenseLineRow
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND expense_date >= ? AND expense_date <= ?", tenantID, start, end).
		Order("expense_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]report.ExpenseLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, report.ExpenseLine{
			Amount:      row.Amount,
			Category:    row.Category,
			ExpenseDate: row.ExpenseDate,
		})
	}
	return lines, nil
}

// Ensure readers implement the report interfaces
var (
	_ report.SalesReader   = (*GormSalesReader)(nil)
	_ report.ExpenseReader = (*GormExpenseReader)(nil)
)
