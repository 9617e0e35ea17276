// Package storage provides SQLite-backed persistence for the local
// product store and the reconciliation run history.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Storage provides SQLite database access.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// UpsertProduct inserts or updates a product by barcode
func (s *Storage) UpsertProduct(product *Product) error {
	query := `
	INSERT INTO products (barcode, name, purchase_price, sale_price, stock, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(barcode) DO UPDATE SET
		name = excluded.name,
		purchase_price = excluded.purchase_price,
		sale_price = excluded.sale_price,
		stock = excluded.stock,
		updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.Exec(query,
		product.Barcode,
		product.Name,
		product.PurchasePrice.String(),
		product.SalePrice.String(),
		product.Stock,
	)
	return err
}

// GetProduct retrieves a product by barcode
func (s *Storage) GetProduct(barcode string) (*Product, error) {
	query := `
	SELECT id, barcode, name, purchase_price, sale_price, stock, created_at, updated_at
	FROM products WHERE barcode = ?
	`

	product := &Product{}
	var purchasePrice, salePrice string
	err := s.db.QueryRow(query, barcode).Scan(
		&product.ID,
		&product.Barcode,
		&product.Name,
		&purchasePrice,
		&salePrice,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if product.PurchasePrice, err = decimal.NewFromString(purchasePrice); err != nil {
		return nil, fmt.Errorf("invalid purchase price for %s: %w", barcode, err)
	}
	if product.SalePrice, err = decimal.NewFromString(salePrice); err != nil {
		return nil, fmt.Errorf("invalid sale price for %s: %w", barcode, err)
	}

	return product, nil
}

// ListProducts returns products with pagination
func (s *Storage) ListProducts(limit, offset int) ([]*Product, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
	SELECT id, barcode, name, purchase_price, sale_price, stock, created_at, updated_at
	FROM products ORDER BY barcode LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product := &Product{}
		var purchasePrice, salePrice string
		if err := rows.Scan(
			&product.ID,
			&product.Barcode,
			&product.Name,
			&purchasePrice,
			&salePrice,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if product.PurchasePrice, err = decimal.NewFromString(purchasePrice); err != nil {
			return nil, 0, fmt.Errorf("invalid purchase price for %s: %w", product.Barcode, err)
		}
		if product.SalePrice, err = decimal.NewFromString(salePrice); err != nil {
			return nil, 0, fmt.Errorf("invalid sale price for %s: %w", product.Barcode, err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

// PurchasePriceByBarcode looks up the purchase price for a barcode.
// A missing barcode is reported via found=false, not an error.
func (s *Storage) PurchasePriceByBarcode(barcode string) (decimal.Decimal, bool, error) {
	var priceStr string
	err := s.db.QueryRow("SELECT purchase_price FROM products WHERE barcode = ?", barcode).Scan(&priceStr)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid purchase price for %s: %w", barcode, err)
	}

	return price, true, nil
}

// StartReportRun records the start of a report run and returns the run ID
func (s *Storage) StartReportRun(start, end time.Time, legacyWindows bool) (int64, error) {
	query := `
	INSERT INTO report_runs (start_date, end_date, legacy_windows)
	VALUES (?, ?, ?)
	`

	result, err := s.db.Exec(query,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
		legacyWindows,
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// CompleteReportRun records the completion of a report run
func (s *Storage) CompleteReportRun(runID int64, summary RunSummary) error {
	query := `
	UPDATE report_runs
	SET sale_count = ?, order_count = ?, error_count = ?, degraded = ?,
	    total_net_profit = ?, completed_at = CURRENT_TIMESTAMP
	WHERE id = ?
	`

	result, err := s.db.Exec(query,
		summary.SaleCount,
		summary.OrderCount,
		summary.ErrorCount,
		summary.Degraded,
		summary.TotalNetProfit.String(),
		runID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("report run not found: %d", runID)
	}

	return nil
}

// ListReportRuns returns recent report runs
func (s *Storage) ListReportRuns(limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, start_date, end_date, legacy_windows, sale_count, order_count,
	       error_count, degraded, total_net_profit, started_at, completed_at
	FROM report_runs ORDER BY started_at DESC, id DESC LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		run, err := scanReportRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetReportRun retrieves a report run by ID
func (s *Storage) GetReportRun(runID int64) (*ReportRun, error) {
	query := `
	SELECT id, start_date, end_date, legacy_windows, sale_count, order_count,
	       error_count, degraded, total_net_profit, started_at, completed_at
	FROM report_runs WHERE id = ?
	`

	run, err := scanReportRun(s.db.QueryRow(query, runID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

// scanReportRun scans one report_runs row via the given scan function
func scanReportRun(scan func(...interface{}) error) (*ReportRun, error) {
	run := &ReportRun{}
	var totalNetProfit string
	var completedAt sql.NullTime

	err := scan(
		&run.ID,
		&run.StartDate,
		&run.EndDate,
		&run.LegacyWindows,
		&run.SaleCount,
		&run.OrderCount,
		&run.ErrorCount,
		&run.Degraded,
		&totalNetProfit,
		&run.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if run.TotalNetProfit, err = decimal.NewFromString(totalNetProfit); err != nil {
		return nil, fmt.Errorf("invalid total net profit for run %d: %w", run.ID, err)
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return run, nil
}
