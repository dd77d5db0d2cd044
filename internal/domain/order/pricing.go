package order

import "github.com/shopspring/decimal"

// Shipping policy: a flat fee unless the raw item subtotal strictly exceeds
// the free-shipping threshold. At exactly the threshold shipping is charged.
var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingFee       = decimal.NewFromInt(10)
)

// CalcPrices computes the item subtotal, shipping cost, and total for a set
// of reconciled items. It is pure and deterministic.
//
// All returned values carry exactly two decimal places. Rounding is
// shopspring's Round, i.e. round-half-away-from-zero, so a subtotal of
// 33.335 becomes 33.34. The free-shipping comparison uses the unrounded
// subtotal, matching the order the figures are derived in.
func CalcPrices(items []Item) (itemsPrice, shippingPrice, totalPrice decimal.Decimal) {
	subtotal := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		subtotal = subtotal.Add(it.UnitPrice.Mul(qty))
	}

	shippingPrice = flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shippingPrice = decimal.Zero
	}

	itemsPrice = subtotal.Round(2)
	shippingPrice = shippingPrice.Round(2)
	totalPrice = itemsPrice.Add(shippingPrice)
	return itemsPrice, shippingPrice, totalPrice
}
