package dto

import "github.com/shopspring/decimal"

// StartReportRequest is the request body for starting a report job.
// Dates use the 2006-01-02 format.
type StartReportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`

	// LegacyWindows optionally overrides the configured window mode.
	LegacyWindows *bool `json:"legacy_windows,omitempty"`
}

// UpsertProductRequest is the request body for seeding a product.
type UpsertProductRequest struct {
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
}
