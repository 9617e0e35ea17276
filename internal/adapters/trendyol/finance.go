package trendyol

import (
	"context"
	"fmt"
	"log/slog"
)

// FetchSettlements fetches one page of settlement records in the given
// millisecond-epoch range. Use TransactionTypeSale or TransactionTypeReturn;
// deduction invoices live on the /otherfinancials endpoint instead.
func (c *Client) FetchSettlements(ctx context.Context, startMillis, endMillis int64, transactionType string, page int) (*SettlementsPage, error) {
	c.logger.Debug("fetching settlements page",
		slog.Int("page", page),
		slog.String("transaction_type", transactionType),
	)

	var result SettlementsPage
	q := c.pageQuery(startMillis, endMillis, transactionType, page)
	if err := c.get(ctx, "settlements", q, &result); err != nil {
		return nil, fmt.Errorf("fetch settlements page %d: %w", page, err)
	}

	return &result, nil
}

// FetchDeductionInvoices fetches one page of deduction invoices in the
// given millisecond-epoch range via /otherfinancials.
func (c *Client) FetchDeductionInvoices(ctx context.Context, startMillis, endMillis int64, page int) (*DeductionInvoicesPage, error) {
	c.logger.Debug("fetching deduction invoices page", slog.Int("page", page))

	var result DeductionInvoicesPage
	q := c.pageQuery(startMillis, endMillis, TransactionTypeDeductionInvoices, page)
	if err := c.get(ctx, "otherfinancials", q, &result); err != nil {
		return nil, fmt.Errorf("fetch deduction invoices page %d: %w", page, err)
	}

	return &result, nil
}

// FetchCargoInvoiceItems fetches the line items of one cargo invoice.
func (c *Client) FetchCargoInvoiceItems(ctx context.Context, invoiceID string) ([]CargoInvoiceItem, error) {
	c.logger.Debug("fetching cargo invoice items", slog.String("invoice_id", invoiceID))

	var result cargoItemsPage
	path := fmt.Sprintf("cargo-invoice/%s/items", invoiceID)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, fmt.Errorf("fetch cargo invoice %s items: %w", invoiceID, err)
	}

	return result.Content, nil
}
