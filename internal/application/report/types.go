package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MertalpTasdelen/yeninesilevim/internal/adapters/trendyol"
	"github.com/MertalpTasdelen/yeninesilevim/internal/domain/period"
	"github.com/MertalpTasdelen/yeninesilevim/internal/domain/reconcile"
)

// FinanceClient is the remote partner API surface the engine consumes.
type FinanceClient interface {
	FetchSettlements(ctx context.Context, startMillis, endMillis int64, transactionType string, page int) (*trendyol.SettlementsPage, error)
	FetchDeductionInvoices(ctx context.Context, startMillis, endMillis int64, page int) (*trendyol.DeductionInvoicesPage, error)
	FetchCargoInvoiceItems(ctx context.Context, invoiceID string) ([]trendyol.CargoInvoiceItem, error)
	PageSize() int
}

// Options holds report policy settings.
type Options struct {
	WindowDays    int
	LegacyWindows bool
	Policy        reconcile.Policy

	// OnPhase, when set, receives pipeline phase transitions
	// ("fetching_sales", "fetching_shipping", "reconciling").
	OnPhase func(phase string)
}

// FetchError records one recovered fetch failure. The run always
// completes; these drive the structured degradation report.
type FetchError struct {
	Stage     string `json:"stage"` // "sales", "deduction_invoices", "cargo_invoice_items"
	Window    string `json:"window,omitempty"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Page      int    `json:"page,omitempty"`
	Detail    string `json:"detail"`
}

// Report is the output of one reconciliation run.
type Report struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Lines          []reconcile.Line     `json:"lines"`
	Pivot          []reconcile.PivotRow `json:"pivot"`
	TotalNetProfit decimal.Decimal      `json:"total_net_profit"`

	// Degraded is true when any fetch failed and the figures are partial.
	Degraded       bool            `json:"degraded"`
	MissingPeriods []period.Window `json:"missing_periods,omitempty"`
	Errors         []FetchError    `json:"errors,omitempty"`
	SalesTruncated bool            `json:"sales_truncated,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}
