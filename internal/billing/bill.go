package billing

import "github.com/shopspring/decimal"

// LineItem is one row of an in-progress bill. UnitPrice is the price
// snapshot taken when the operator added the part to the cart, not a live
// lookup, so the bill stays stable while prices change underneath it.
type LineItem struct {
	ProductID uint
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total is quantity times the snapshotted unit price.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Totals holds the derived amounts of a bill. They are always recomputed
// from the line items and never stored independently until the order is
// persisted.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute derives bill totals from the line items. The manual discount is
// clamped to [0, subtotal] so the taxable base never goes negative; tax
// applies to the discounted subtotal at the given rate. Pure and
// deterministic, safe to call on every cart mutation.
func Compute(items []LineItem, discount, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}
	subtotal = subtotal.Round(2)

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)

	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		GrandTotal: taxable.Add(tax).Round(2),
	}
}
