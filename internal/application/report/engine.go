// Package report runs the settlement reconciliation pipeline: sales
// settlements and cargo shipping costs are fetched from the partner API,
// joined with locally stored purchase prices, and aggregated into a
// per-order net-profit report.
//
// The pipeline degrades gracefully: a failed page, window or invoice
// fetch is logged, recorded on the report, and the run continues with
// whatever data was recovered. A partial profit report is more useful
// than none.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MertalpTasdelen/yeninesilevim/internal/adapters/trendyol"
	"github.com/MertalpTasdelen/yeninesilevim/internal/domain/period"
	"github.com/MertalpTasdelen/yeninesilevim/internal/domain/reconcile"
)

// Engine executes reconciliation runs. Every run starts from empty
// accumulators; no state is shared across runs.
type Engine struct {
	client FinanceClient
	prices reconcile.PriceLookup
	opts   Options
	logger *slog.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(client FinanceClient, prices reconcile.PriceLookup, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = period.DefaultWindowDays
	}
	return &Engine{
		client: client,
		prices: prices,
		opts:   opts,
		logger: logger.With(slog.String("system", "report")),
	}
}

// Run executes one reconciliation for [start, end]. The call blocks until
// the full sweep and join complete. It returns an error only for invalid
// arguments or a cancelled context; remote failures degrade the report
// instead of failing it.
func (e *Engine) Run(ctx context.Context, start, end time.Time) (*Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	e.logger.Info("starting reconciliation run",
		slog.String("start", start.Format("2006-01-02")),
		slog.String("end", end.Format("2006-01-02")),
		slog.Bool("legacy_windows", e.opts.LegacyWindows),
	)

	rep := &Report{Start: start, End: end}

	e.phase("fetching_sales")
	sales, salesErrs, truncated := e.fetchSales(ctx, start, end)
	rep.Errors = append(rep.Errors, salesErrs...)
	rep.SalesTruncated = truncated

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var windows []period.Window
	if e.opts.LegacyWindows {
		windows = period.SplitLegacy(start)
	} else {
		windows = period.Split(start, end, e.opts.WindowDays)
	}

	e.phase("fetching_shipping")
	fees, shippingErrs, missing := e.fetchShippingFees(ctx, windows)
	rep.Errors = append(rep.Errors, shippingErrs...)
	rep.MissingPeriods = missing

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.phase("reconciling")
	reconciler := reconcile.New(e.prices, e.opts.Policy, e.logger)
	rep.Lines = reconciler.Reconcile(sales, fees)
	rep.Pivot, rep.TotalNetProfit = reconcile.BuildPivot(rep.Lines)

	rep.Degraded = len(rep.Errors) > 0
	rep.GeneratedAt = time.Now()

	e.logger.Info("reconciliation run finished",
		slog.Int("sales", len(sales)),
		slog.Int("lines", len(rep.Lines)),
		slog.Int("orders", len(rep.Pivot)),
		slog.String("total_net_profit", rep.TotalNetProfit.String()),
		slog.Bool("degraded", rep.Degraded),
	)

	return rep, nil
}

// fetchSales pages through the settlements endpoint for the whole range.
// Pagination stops on a short or empty page. A failed page truncates the
// fetch; whatever was accumulated is returned along with the error record.
func (e *Engine) fetchSales(ctx context.Context, start, end time.Time) ([]trendyol.SettlementRecord, []FetchError, bool) {
	startMillis := start.UnixMilli()
	endMillis := end.AddDate(0, 0, 1).Add(-time.Millisecond).UnixMilli()

	var sales []trendyol.SettlementRecord
	for page := 0; ; page++ {
		result, err := e.client.FetchSettlements(ctx, startMillis, endMillis, trendyol.TransactionTypeSale, page)
		if err != nil {
			e.logger.Error("settlements page fetch failed, returning partial sales",
				slog.Int("page", page),
				slog.String("error", err.Error()),
			)
			return sales, []FetchError{{Stage: "sales", Page: page, Detail: err.Error()}}, true
		}

		sales = append(sales, result.Content...)
		if len(result.Content) == 0 || len(result.Content) < e.client.PageSize() {
			break
		}
	}

	e.logger.Debug("fetched sales settlements", slog.Int("count", len(sales)))
	return sales, nil, false
}

// fetchShippingFees sweeps the query windows, collecting cargo invoice
// line items into a shipping fee map keyed by order number. A window
// whose invoice listing fails contributes nothing and is reported as
// missing; a single invoice whose item fetch fails is skipped.
func (e *Engine) fetchShippingFees(ctx context.Context, windows []period.Window) (reconcile.ShippingFeeMap, []FetchError, []period.Window) {
	fees := reconcile.NewShippingFeeMap()
	var errs []FetchError
	var missing []period.Window

	for _, w := range windows {
		windowLabel := fmt.Sprintf("%s/%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))

		invoices, err := e.fetchDeductionInvoices(ctx, w)
		if err != nil {
			e.logger.Error("deduction invoice fetch failed, skipping window",
				slog.String("window", windowLabel),
				slog.String("error", err.Error()),
			)
			errs = append(errs, FetchError{Stage: "deduction_invoices", Window: windowLabel, Detail: err.Error()})
			missing = append(missing, w)
			continue
		}

		cargoCount := 0
		for _, invoice := range invoices {
			if !reconcile.IsCargoInvoiceType(invoice.TransactionType) {
				continue
			}
			cargoCount++

			invoiceID := invoice.InvoiceID()
			if invoiceID == "" {
				continue
			}

			items, err := e.client.FetchCargoInvoiceItems(ctx, invoiceID)
			if err != nil {
				e.logger.Warn("cargo invoice items fetch failed, skipping invoice",
					slog.String("invoice_id", invoiceID),
					slog.String("error", err.Error()),
				)
				errs = append(errs, FetchError{
					Stage:     "cargo_invoice_items",
					Window:    windowLabel,
					InvoiceID: invoiceID,
					Detail:    err.Error(),
				})
				continue
			}

			fees.AddItems(items)
		}

		e.logger.Debug("window swept",
			slog.String("window", windowLabel),
			slog.Int("deduction_invoices", len(invoices)),
			slog.Int("cargo_invoices", cargoCount),
		)
	}

	e.logger.Debug("shipping fee map built", slog.Int("orders", len(fees)))
	return fees, errs, missing
}

// fetchDeductionInvoices pages through /otherfinancials for one window.
// Any page failure aborts the window; partially listed invoices are
// discarded so the window contributes nothing (all-or-nothing per window).
func (e *Engine) fetchDeductionInvoices(ctx context.Context, w period.Window) ([]trendyol.DeductionInvoice, error) {
	var invoices []trendyol.DeductionInvoice
	for page := 0; ; page++ {
		result, err := e.client.FetchDeductionInvoices(ctx, w.StartMillis(), w.EndMillis(), page)
		if err != nil {
			return nil, err
		}

		invoices = append(invoices, result.Content...)
		if len(result.Content) == 0 || len(result.Content) < e.client.PageSize() {
			break
		}
	}
	return invoices, nil
}

func (e *Engine) phase(name string) {
	if e.opts.OnPhase != nil {
		e.opts.OnPhase(name)
	}
}
