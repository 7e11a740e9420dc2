package workflow

import (
	"Omnisell/pkg/apperr"

	"github.com/shopspring/decimal"
)

// Line 参与计价的单行
type Line struct {
	Price    decimal.Decimal
	Cost     decimal.Decimal
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Profit() decimal.Decimal {
	return l.Price.Sub(l.Cost).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Profit      decimal.Decimal
}

// ComputeTotals total = subtotal - discount + shipping + tax，tax 按 subtotal 计并保留两位
func ComputeTotals(lines []Line, discount, shipping, taxRate decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperr.Validation("order must contain at least one item")
	}
	if shipping.IsNegative() {
		return Totals{}, apperr.Validation("shipping fee must not be negative")
	}

	subtotal := decimal.Zero
	profit := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, apperr.Validation("quantity must be positive")
		}
		subtotal = subtotal.Add(l.Subtotal())
		profit = profit.Add(l.Profit())
	}
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return Totals{}, apperr.Validation("discount must be between 0 and the subtotal %s", subtotal.StringFixed(2))
	}

	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Sub(discount).Add(shipping).Add(tax),
		Profit:      profit,
	}, nil
}
