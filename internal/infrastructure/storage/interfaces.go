package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	ProductRepository
	ReportRunRepository
	Close() error
}

// ProductRepository backs the read-only purchase-price lookup the
// reconciler needs, plus the minimal write path used to seed the store.
type ProductRepository interface {
	// UpsertProduct inserts or updates a product by barcode
	UpsertProduct(product *Product) error

	// GetProduct retrieves a product by barcode
	GetProduct(barcode string) (*Product, error)

	// ListProducts returns products with pagination
	ListProducts(limit, offset int) ([]*Product, int, error)

	// PurchasePriceByBarcode looks up the purchase price for a barcode.
	// A missing barcode is reported via found=false, not an error.
	PurchasePriceByBarcode(barcode string) (price decimal.Decimal, found bool, err error)
}

// ReportRunRepository tracks reconciliation report runs
type ReportRunRepository interface {
	// StartReportRun records the start of a report run and returns the run ID
	StartReportRun(start, end time.Time, legacyWindows bool) (int64, error)

	// CompleteReportRun records the completion of a report run
	CompleteReportRun(runID int64, summary RunSummary) error

	// ListReportRuns returns recent report runs
	ListReportRuns(limit int) ([]ReportRun, error)

	// GetReportRun retrieves a report run by ID
	GetReportRun(runID int64) (*ReportRun, error)
}

// RunSummary holds the completion figures of a report run
type RunSummary struct {
	SaleCount      int
	OrderCount     int
	ErrorCount     int
	Degraded       bool
	TotalNetProfit decimal.Decimal
}
