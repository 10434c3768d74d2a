package gateway

import (
	"context"

	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/shopspring/decimal"
)

// CompleteOrderResult is the outcome of finalizing a draft order
type CompleteOrderResult struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"order_id"`
}

// Adapter is the narrow boundary to the order/payment backend. Payment-method
// cryptography, tax/shipping rates and stock enforcement all live behind it.
// Timeout and retry policy are the adapter's responsibility, not the caller's.
type Adapter interface {
	// CompleteOrder finalizes a previously authorized draft into a real order
	CompleteOrder(ctx context.Context, draftOrderID, paymentRef string) (CompleteOrderResult, error)

	// GetOrderSummary fetches an order snapshot; either identifier may be
	// supplied. Returns (nil, nil) when the order is not found yet.
	GetOrderSummary(ctx context.Context, orderID int64, paymentRef string) (*types.OrderSummary, error)

	// ChargeUpsell charges an additional item against the same payment method
	// without re-collecting payment details
	ChargeUpsell(ctx context.Context, orderID int64, paymentRef, sku string, qty int, discountPercent *decimal.Decimal) error
}
