package storage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	products  map[string]*Product
	runs      map[int64]*ReportRun
	nextRunID int64

	// Hooks for test assertions
	UpsertProductCalled    bool
	LastUpsertedProduct    *Product
	PriceLookupCalls       []string
	StartReportRunCalled   bool
	CompleteReportRunCalls int

	// Error injection for testing error paths
	UpsertProductErr  error
	PriceLookupErr    error
	StartReportRunErr error
	CompleteRunErr    error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		products: make(map[string]*Product),
		runs:     make(map[int64]*ReportRun),
	}
}

// SeedProduct adds a product with the given barcode and purchase price
func (m *MockRepository) SeedProduct(barcode string, purchasePrice decimal.Decimal) {
	m.products[barcode] = &Product{
		ID:            int64(len(m.products) + 1),
		Barcode:       barcode,
		PurchasePrice: purchasePrice,
	}
}

// UpsertProduct inserts or updates a product by barcode
func (m *MockRepository) UpsertProduct(product *Product) error {
	m.UpsertProductCalled = true
	m.LastUpsertedProduct = product
	if m.UpsertProductErr != nil {
		return m.UpsertProductErr
	}
	copied := *product
	if existing, ok := m.products[product.Barcode]; ok {
		copied.ID = existing.ID
	} else {
		copied.ID = int64(len(m.products) + 1)
	}
	m.products[product.Barcode] = &copied
	return nil
}

// GetProduct retrieves a product by barcode
func (m *MockRepository) GetProduct(barcode string) (*Product, error) {
	product, ok := m.products[barcode]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

// ListProducts returns products with pagination
func (m *MockRepository) ListProducts(limit, offset int) ([]*Product, int, error) {
	var products []*Product
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	return products, len(m.products), nil
}

// PurchasePriceByBarcode looks up the purchase price for a barcode
func (m *MockRepository) PurchasePriceByBarcode(barcode string) (decimal.Decimal, bool, error) {
	m.PriceLookupCalls = append(m.PriceLookupCalls, barcode)
	if m.PriceLookupErr != nil {
		return decimal.Zero, false, m.PriceLookupErr
	}
	product, ok := m.products[barcode]
	if !ok {
		return decimal.Zero, false, nil
	}
	return product.PurchasePrice, true, nil
}

// StartReportRun records the start of a report run
func (m *MockRepository) StartReportRun(start, end time.Time, legacyWindows bool) (int64, error) {
	m.StartReportRunCalled = true
	if m.StartReportRunErr != nil {
		return 0, m.StartReportRunErr
	}
	m.nextRunID++
	m.runs[m.nextRunID] = &ReportRun{
		ID:            m.nextRunID,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		LegacyWindows: legacyWindows,
		StartedAt:     time.Now(),
	}
	return m.nextRunID, nil
}

// CompleteReportRun records the completion of a report run
func (m *MockRepository) CompleteReportRun(runID int64, summary RunSummary) error {
	m.CompleteReportRunCalls++
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("report run not found: %d", runID)
	}
	now := time.Now()
	run.SaleCount = summary.SaleCount
	run.OrderCount = summary.OrderCount
	run.ErrorCount = summary.ErrorCount
	run.Degraded = summary.Degraded
	run.TotalNetProfit = summary.TotalNetProfit
	run.CompletedAt = &now
	return nil
}

// ListReportRuns returns recent report runs
func (m *MockRepository) ListReportRuns(limit int) ([]ReportRun, error) {
	var runs []ReportRun
	for id := m.nextRunID; id > 0 && len(runs) < limit; id-- {
		if run, ok := m.runs[id]; ok {
			runs = append(runs, *run)
		}
	}
	return runs, nil
}

// GetReportRun retrieves a report run by ID
func (m *MockRepository) GetReportRun(runID int64) (*ReportRun, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// Close is a no-op for the mock
func (m *MockRepository) Close() error {
	return nil
}
