package testutil

import (
	"context"
	"sync"

	"github.com/funnelkit/funnelkit/internal/gateway"
	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/shopspring/decimal"
)

// UpsellCharge records one ChargeUpsell call for assertions
type UpsellCharge struct {
	OrderID         int64
	PaymentRef      string
	Sku             string
	Qty             int
	DiscountPercent *decimal.Decimal
}

// InMemoryGateway is a scriptable gateway.Adapter for tests. Errors and
// responses are set per operation; every call is recorded.
type InMemoryGateway struct {
	mu sync.Mutex

	CompleteOrderResult gateway.CompleteOrderResult
	CompleteOrderErr    error
	Summary             *types.OrderSummary
	SummaryErr          error
	ChargeErr           error

	CompleteOrderCalls []string
	SummaryCalls       int
	Charges            []UpsellCharge
}

// NewInMemoryGateway creates a gateway that finalizes every draft into order 1
func NewInMemoryGateway() *InMemoryGateway {
	return &InMemoryGateway{
		CompleteOrderResult: gateway.CompleteOrderResult{Success: true, OrderID: 1},
	}
}

func (g *InMemoryGateway) CompleteOrder(ctx context.Context, draftOrderID, paymentRef string) (gateway.CompleteOrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CompleteOrderCalls = append(g.CompleteOrderCalls, draftOrderID)
	if g.CompleteOrderErr != nil {
		return gateway.CompleteOrderResult{}, g.CompleteOrderErr
	}
	return g.CompleteOrderResult, nil
}

func (g *InMemoryGateway) GetOrderSummary(ctx context.Context, orderID int64, paymentRef string) (*types.OrderSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SummaryCalls++
	if g.SummaryErr != nil {
		return nil, g.SummaryErr
	}
	return g.Summary, nil
}

func (g *InMemoryGateway) ChargeUpsell(ctx context.Context, orderID int64, paymentRef, sku string, qty int, discountPercent *decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Charges = append(g.Charges, UpsellCharge{
		OrderID:         orderID,
		PaymentRef:      paymentRef,
		Sku:             sku,
		Qty:             qty,
		DiscountPercent: discountPercent,
	})
	return g.ChargeErr
}

// SummaryCallCount returns the number of summary fetches issued
func (g *InMemoryGateway) SummaryCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.SummaryCalls
}
