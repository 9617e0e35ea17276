package trendyol

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction type filters accepted by the finance endpoints.
const (
	TransactionTypeSale              = "Sale"
	TransactionTypeReturn            = "Return"
	TransactionTypeDeductionInvoices = "DeductionInvoices"
)

// SettlementRecord is one sale (or return) transaction from the
// /settlements endpoint. SellerRevenue is a pointer because the API
// omits it on some record types; those records are skipped downstream.
type SettlementRecord struct {
	ID              string           `json:"id"`
	Barcode         string           `json:"barcode"`
	OrderNumber     string           `json:"orderNumber"`
	TransactionType string           `json:"transactionType"`
	TransactionDate int64            `json:"transactionDate"`
	SellerRevenue   *decimal.Decimal `json:"sellerRevenue"`
}

// DeductionInvoice is one record from the /otherfinancials endpoint.
// The invoice id arrives either as "id" or "Id" and either as a number
// or a string depending on the invoice type; json.Number absorbs both
// numeric forms and Go's case-insensitive field matching handles the key.
type DeductionInvoice struct {
	ID              json.Number `json:"id"`
	TransactionType string      `json:"transactionType"`
	TransactionDate int64       `json:"transactionDate"`
}

// InvoiceID returns the invoice identifier as a string, empty if absent.
func (d DeductionInvoice) InvoiceID() string {
	return d.ID.String()
}

// CargoInvoiceItem is one line item of a cargo invoice. Only items whose
// ShipmentPackageType marks them as a shipping charge count toward the
// shipping fee of an order.
type CargoInvoiceItem struct {
	OrderNumber         string          `json:"orderNumber"`
	Amount              decimal.Decimal `json:"amount"`
	ShipmentPackageType string          `json:"shipmentPackageType"`
	Desi                decimal.Decimal `json:"desi"`
}

// SettlementsPage is one page of the /settlements response envelope.
type SettlementsPage struct {
	Content       []SettlementRecord `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
}

// DeductionInvoicesPage is one page of the /otherfinancials response envelope.
type DeductionInvoicesPage struct {
	Content       []DeductionInvoice `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
}

// cargoItemsPage is the envelope of the cargo-invoice items endpoint.
type cargoItemsPage struct {
	Content []CargoInvoiceItem `json:"content"`
}
