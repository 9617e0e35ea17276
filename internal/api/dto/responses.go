package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version string `json:"version,omitempty"`
}

// NewHealthResponse creates a healthy response with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().Format(time.RFC3339),
	}
}

// ProductResponse represents a stored product.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	UpdatedAt     string          `json:"updated_at"`
}

// ProductListResponse contains paginated product results.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	TotalCount int               `json:"total_count"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// ReconciledLineResponse is one reconciled sale in the profit report.
type ReconciledLineResponse struct {
	Barcode       string          `json:"barcode"`
	OrderNumber   string          `json:"order_number"`
	SellerRevenue decimal.Decimal `json:"seller_revenue"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	CargoFound    bool            `json:"cargo_found"`
	ProductFound  bool            `json:"product_found"`
}

// PivotRowResponse is one order-grouped summary row.
type PivotRowResponse struct {
	OrderNumber    string          `json:"order_number"`
	LineCount      int             `json:"line_count"`
	SellerRevenue  decimal.Decimal `json:"seller_revenue"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
}

// FetchErrorResponse is one recovered fetch failure.
type FetchErrorResponse struct {
	Stage     string `json:"stage"`
	Window    string `json:"window,omitempty"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Page      int    `json:"page,omitempty"`
	Detail    string `json:"detail"`
}

// ProfitReportResponse is the full reconciliation report.
type ProfitReportResponse struct {
	Start          string                   `json:"start"`
	End            string                   `json:"end"`
	Lines          []ReconciledLineResponse `json:"lines"`
	Pivot          []PivotRowResponse       `json:"pivot"`
	TotalNetProfit decimal.Decimal          `json:"total_net_profit"`
	Degraded       bool                     `json:"degraded"`
	MissingPeriods []string                 `json:"missing_periods,omitempty"`
	Errors         []FetchErrorResponse     `json:"errors,omitempty"`
	SalesTruncated bool                     `json:"sales_truncated,omitempty"`
	GeneratedAt    string                   `json:"generated_at"`
}

// StartReportResponse is returned when a report job is started.
type StartReportResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ReportJobResponse represents a report job's status.
type ReportJobResponse struct {
	JobID       string                `json:"job_id"`
	Status      string                `json:"status"`
	Phase       string                `json:"phase"`
	Start       string                `json:"start"`
	End         string                `json:"end"`
	StartedAt   string                `json:"started_at"`
	CompletedAt *string               `json:"completed_at,omitempty"`
	Report      *ProfitReportResponse `json:"report,omitempty"`
	Error       *string               `json:"error,omitempty"`
}

// ReportJobListResponse lists report jobs.
type ReportJobListResponse struct {
	Jobs  []ReportJobResponse `json:"jobs"`
	Count int                 `json:"count"`
}

// ReportRunResponse represents a historical report run.
type ReportRunResponse struct {
	ID             int64           `json:"id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	LegacyWindows  bool            `json:"legacy_windows"`
	SaleCount      int             `json:"sale_count"`
	OrderCount     int             `json:"order_count"`
	ErrorCount     int             `json:"error_count"`
	Degraded       bool            `json:"degraded"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
	StartedAt      string          `json:"started_at"`
	CompletedAt    *string         `json:"completed_at,omitempty"`
}

// ReportRunListResponse lists historical report runs.
type ReportRunListResponse struct {
	Runs  []ReportRunResponse `json:"runs"`
	Count int                 `json:"count"`
}

// MessageResponse is a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}
