package reconcile

import "strings"

// Cargo invoice matching constants. The partner API is inconsistent about
// the exact label ("Kargo Faturası" vs "Kargo Fatura"), so transaction
// types are compared after normalization.
const (
	cargoInvoiceType     = "kargo fatura"
	cargoInvoiceTypeLong = "kargo faturasi"
)

// CargoPackageType is the shipmentPackageType value that marks a cargo
// invoice line item as an actual shipping charge. Other package types on
// the same invoice do not count toward the shipping fee.
const CargoPackageType = "Gönderi Kargo Bedeli"

// turkishDotless maps the Turkish i variants to plain ASCII i before
// lowercasing. Generic case folding is not enough here: 'İ' lowers to
// "i̇" (i + combining dot) and 'I' to 'i', so the dotted/dotless
// pair round-trips differently under strings.ToLower.
var turkishDotless = strings.NewReplacer("ı", "i", "İ", "i")

// normalizeTransactionType canonicalizes a transactionType string for
// comparison: Turkish i variants flattened to plain i, then lowercased.
func normalizeTransactionType(s string) string {
	return strings.ToLower(turkishDotless.Replace(s))
}

// IsCargoInvoiceType reports whether a deduction invoice transactionType
// identifies a cargo (shipping) invoice.
func IsCargoInvoiceType(transactionType string) bool {
	n := normalizeTransactionType(transactionType)
	return n == cargoInvoiceType || n == cargoInvoiceTypeLong
}
