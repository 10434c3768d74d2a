package types

import (
	"github.com/shopspring/decimal"
)

// CartItemLabelIncluded marks the required-minimum units of a tiered kit product
const CartItemLabelIncluded = "included in kit"

// CartItem is the pricing engine's output unit
type CartItem struct {
	Sku string `json:"sku"`
	Qty int    `json:"qty"`
	// SalePrice is the resolved per-unit price actually charged
	SalePrice decimal.Decimal `json:"sale_price"`
	// RegularPrice is the per-unit compare-at price, for display only
	RegularPrice *decimal.Decimal `json:"regular_price,omitempty"`
	Label        string           `json:"label,omitempty"`
	// ItemDiscountPercent is a display-only discount percent carried through
	// to the order backend
	ItemDiscountPercent *decimal.Decimal `json:"item_discount_percent,omitempty"`
}

// LineTotal returns qty x unit sale price, unrounded
func (c CartItem) LineTotal() decimal.Decimal {
	return c.SalePrice.Mul(decimal.NewFromInt(int64(c.Qty)))
}

// PriceSummary is the display price pair for the current selection
type PriceSummary struct {
	Original   decimal.Decimal `json:"original"`
	Discounted decimal.Decimal `json:"discounted"`
}
