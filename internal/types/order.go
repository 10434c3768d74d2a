package types

import (
	"github.com/shopspring/decimal"
)

// OrderItem is one line of a finalized order as reported by the order backend
type OrderItem struct {
	Name     string          `json:"name"`
	Sku      string          `json:"sku"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Image    string          `json:"image,omitempty"`
}

// PointsRedemption is the loyalty points applied to an order
type PointsRedemption struct {
	Points int64           `json:"points"`
	Value  decimal.Decimal `json:"value"`
}

// OrderSummary is a read-only projection from the order backend.
// It is treated as a snapshot and never recomputed locally.
type OrderSummary struct {
	OrderID        int64            `json:"order_id"`
	OrderNumber    string           `json:"order_number"`
	Items          []OrderItem      `json:"items"`
	ShippingTotal  decimal.Decimal  `json:"shipping_total"`
	FeesTotal      decimal.Decimal  `json:"fees_total"`
	PointsRedeemed PointsRedemption `json:"points_redeemed"`
	ItemsDiscount  decimal.Decimal  `json:"items_discount"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
	Status         string           `json:"status"`
}

// UpsellOffer is a single post-purchase offer charged against the original
// payment method
type UpsellOffer struct {
	Sku             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Image           string           `json:"image,omitempty"`
	RegularPrice    decimal.Decimal  `json:"regular_price"`
	OfferPrice      decimal.Decimal  `json:"offer_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Features        []string         `json:"features,omitempty"`
}
