// Package reconcile joins sale settlement records with locally stored
// purchase costs and fetched shipping fees into per-sale net-profit
// lines and an order-level pivot summary.
package reconcile

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MertalpTasdelen/yeninesilevim/internal/adapters/trendyol"
)

// PriceLookup is the read-only purchase-price collaborator. A missing
// barcode is not an error; found reports whether a product matched.
type PriceLookup interface {
	PurchasePriceByBarcode(barcode string) (price decimal.Decimal, found bool, err error)
}

// Policy names the reconciliation behavior knobs.
type Policy struct {
	// ShippingFeeRequiresProductMatch restores the earlier coupled
	// semantics where the shipping fee was only applied when the barcode
	// matched a local product. Default false: purchase-price and
	// shipping-fee lookups are evaluated independently per line.
	ShippingFeeRequiresProductMatch bool
}

// Line is the reconciled result for one sale settlement record.
type Line struct {
	Barcode       string          `json:"barcode"`
	OrderNumber   string          `json:"order_number"`
	SellerRevenue decimal.Decimal `json:"seller_revenue"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	CargoFound    bool            `json:"cargo_found"`
	ProductFound  bool            `json:"product_found"`
}

// PivotRow aggregates the lines of one order number. TotalNetProfit is
// the run-wide grand total, repeated on every row.
type PivotRow struct {
	OrderNumber    string          `json:"order_number"`
	LineCount      int             `json:"line_count"`
	SellerRevenue  decimal.Decimal `json:"seller_revenue"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
}

// Reconciler computes net profit per sale and the order-level pivot.
type Reconciler struct {
	prices PriceLookup
	policy Policy
	logger *slog.Logger
}

// New creates a reconciler with the given price collaborator and policy.
func New(prices PriceLookup, policy Policy, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		prices: prices,
		policy: policy,
		logger: logger.With(slog.String("system", "reconcile")),
	}
}

// Reconcile joins settlements with purchase prices and shipping fees.
// Records without a barcode or without seller revenue are skipped.
// Output order follows input order, so reconciling the same inputs twice
// yields identical results.
func (r *Reconciler) Reconcile(settlements []trendyol.SettlementRecord, fees ShippingFeeMap) []Line {
	lines := make([]Line, 0, len(settlements))

	for _, record := range settlements {
		if record.Barcode == "" || record.SellerRevenue == nil {
			continue
		}

		purchasePrice := decimal.Zero
		productFound := false
		if r.prices != nil {
			price, found, err := r.prices.PurchasePriceByBarcode(record.Barcode)
			if err != nil {
				r.logger.Warn("purchase price lookup failed",
					slog.String("barcode", record.Barcode),
					slog.String("error", err.Error()),
				)
			} else if found {
				purchasePrice = price
				productFound = true
			}
		}

		shippingFee := decimal.Zero
		fee, cargoFound := fees.Fee(record.OrderNumber)
		applyFee := cargoFound
		if r.policy.ShippingFeeRequiresProductMatch && !productFound {
			applyFee = false
		}
		if applyFee {
			shippingFee = fee
		}

		revenue := record.SellerRevenue.Round(2)
		purchasePrice = purchasePrice.Round(2)
		shippingFee = shippingFee.Round(2)

		lines = append(lines, Line{
			Barcode:       record.Barcode,
			OrderNumber:   record.OrderNumber,
			SellerRevenue: revenue,
			PurchasePrice: purchasePrice,
			ShippingFee:   shippingFee,
			NetProfit:     revenue.Sub(purchasePrice).Sub(shippingFee).Round(2),
			CargoFound:    cargoFound,
			ProductFound:  productFound,
		})
	}

	return lines
}

// BuildPivot groups lines by order number in first-seen order. Every row
// carries the grand total over all lines, not just its own group.
func BuildPivot(lines []Line) ([]PivotRow, decimal.Decimal) {
	total := decimal.Zero
	byOrder := make(map[string]*PivotRow)
	var order []string

	for _, line := range lines {
		total = total.Add(line.NetProfit)

		row, ok := byOrder[line.OrderNumber]
		if !ok {
			row = &PivotRow{OrderNumber: line.OrderNumber}
			byOrder[line.OrderNumber] = row
			order = append(order, line.OrderNumber)
		}
		row.LineCount++
		row.SellerRevenue = row.SellerRevenue.Add(line.SellerRevenue)
		row.PurchasePrice = row.PurchasePrice.Add(line.PurchasePrice)
		row.ShippingFee = row.ShippingFee.Add(line.ShippingFee)
		row.NetProfit = row.NetProfit.Add(line.NetProfit)
	}

	total = total.Round(2)

	rows := make([]PivotRow, 0, len(order))
	for _, orderNumber := range order {
		row := byOrder[orderNumber]
		row.TotalNetProfit = total
		rows = append(rows, *row)
	}

	return rows, total
}
