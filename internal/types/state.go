package types

// FunnelState is the orchestrator's own record of one checkout session.
// It is created on mount, mutated only by orchestrator actions and never
// handed out directly; views receive copies.
type FunnelState struct {
	Step            CheckoutStep
	SelectedOfferID string
	KitSelection    KitSelection
	OfferQuantity   int
	Customer        *CustomerData
	ShippingAddress *Address
	PaymentRef      string
	DraftOrderID    string
	OrderID         int64
	OrderSummary    *OrderSummary
	UpsellIndex     int
}

// Clone returns a deep-enough copy for read-only consumers. The order summary
// and customer payloads are snapshots already, so pointer sharing is fine.
func (s FunnelState) Clone() FunnelState {
	out := s
	out.KitSelection = s.KitSelection.Clone()
	return out
}
