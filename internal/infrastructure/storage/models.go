package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one locally stored product. The reconciler only reads
// Barcode and PurchasePrice; the remaining fields exist so the store can
// be seeded from the seller's own records.
type Product struct {
	ID            int64           `json:"id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ReportRun is one recorded reconciliation run.
type ReportRun struct {
	ID             int64           `json:"id"`
	StartDate      string          `json:"start_date"` // 2006-01-02
	EndDate        string          `json:"end_date"`
	LegacyWindows  bool            `json:"legacy_windows"`
	SaleCount      int             `json:"sale_count"`
	OrderCount     int             `json:"order_count"`
	ErrorCount     int             `json:"error_count"`
	Degraded       bool            `json:"degraded"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}
