package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/MertalpTasdelen/yeninesilevim/internal/adapters/trendyol"
)

// ShippingFeeMap accumulates shipping cost per order number. One order
// can appear on several cargo invoices (and in several query windows);
// contributions are additive and the running total is rounded to two
// decimal places after every addition.
type ShippingFeeMap map[string]decimal.Decimal

// NewShippingFeeMap returns an empty fee map.
func NewShippingFeeMap() ShippingFeeMap {
	return make(ShippingFeeMap)
}

// Add accumulates amount onto the order's running total.
func (m ShippingFeeMap) Add(orderNumber string, amount decimal.Decimal) {
	m[orderNumber] = m[orderNumber].Add(amount).Round(2)
}

// AddItems folds cargo invoice line items into the map. Items whose
// shipmentPackageType is not the shipping-charge type, or that carry no
// order number, are ignored.
func (m ShippingFeeMap) AddItems(items []trendyol.CargoInvoiceItem) int {
	added := 0
	for _, item := range items {
		if item.OrderNumber == "" || item.ShipmentPackageType != CargoPackageType {
			continue
		}
		m.Add(item.OrderNumber, item.Amount)
		added++
	}
	return added
}

// Fee returns the accumulated shipping fee for an order number and
// whether the order was seen at all.
func (m ShippingFeeMap) Fee(orderNumber string) (decimal.Decimal, bool) {
	fee, ok := m[orderNumber]
	return fee, ok
}
