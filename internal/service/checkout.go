package service

import (
	"context"
	"sync"
	"time"

	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/events"
	"github.com/funnelkit/funnelkit/internal/funnel"
	"github.com/funnelkit/funnelkit/internal/gateway"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/navigation"
	"github.com/funnelkit/funnelkit/internal/pricing"
	"github.com/funnelkit/funnelkit/internal/pubsub"
	"github.com/funnelkit/funnelkit/internal/types"
)

// Snapshot is the read-only view of one checkout session handed to step views
type Snapshot struct {
	SessionID     string
	State         types.FunnelState
	Offer         *types.Offer
	CartItems     []types.CartItem
	Price         types.PriceSummary
	Location      string
	CurrentUpsell *types.UpsellOffer
}

// OrchestratorParams bundles the dependencies of one checkout orchestrator
type OrchestratorParams struct {
	SessionID string
	Funnel    *funnel.Config
	Gateway   gateway.Adapter
	Navigator navigation.Navigator
	Logger    *logger.Logger

	// SettleDelay gives the payment webhook a moment to land before the first
	// summary fetch; SummaryRetryDelay spaces the single bounded retry.
	SettleDelay       time.Duration
	SummaryRetryDelay time.Duration
}

// Orchestrator owns the funnel state machine for a single checkout session.
// All mutation goes through its methods; state never leaves the boundary
// except as copies. Network failures after a successful payment are logged
// and swallowed so the flow always advances.
type Orchestrator struct {
	mu sync.Mutex

	sessionID string
	cfg       *funnel.Config
	gateway   gateway.Adapter
	nav       *navigation.Synchronizer
	logger    *logger.Logger

	settleDelay       time.Duration
	summaryRetryDelay time.Duration

	state types.FunnelState
}

// NewOrchestrator creates an orchestrator in its initial (checkout) state.
// Call Mount to restore navigation state and issue the resume summary fetch.
func NewOrchestrator(params OrchestratorParams) *Orchestrator {
	log := params.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	o := &Orchestrator{
		sessionID:         params.SessionID,
		cfg:               params.Funnel,
		gateway:           params.Gateway,
		nav:               navigation.NewSynchronizer(params.Navigator),
		logger:            log.With("session_id", params.SessionID, "funnel_id", params.Funnel.FunnelID),
		settleDelay:       params.SettleDelay,
		summaryRetryDelay: params.SummaryRetryDelay,
	}

	o.state = types.FunnelState{
		Step:          types.CheckoutStepCheckout,
		OfferQuantity: 1,
	}
	o.applyOfferLocked(params.Funnel.ResolveDefaultOfferID())

	return o
}

// Mount restores the session from the current navigation state. When the
// visible location is the upsell or thank-you path with an order identifier,
// the orchestrator initializes directly into that step and issues exactly one
// summary fetch.
func (o *Orchestrator) Mount(ctx context.Context) {
	initial := o.nav.Restore()

	o.mu.Lock()
	o.state.Step = initial.Step
	o.state.OrderID = initial.OrderID
	o.state.PaymentRef = initial.PaymentRef
	orderID, paymentRef := o.state.OrderID, o.state.PaymentRef
	o.mu.Unlock()

	if initial.FetchSummary {
		summary, err := o.gateway.GetOrderSummary(ctx, orderID, paymentRef)
		if err != nil {
			o.logger.Warnw("resume summary fetch failed", "error", err)
		}
		o.mu.Lock()
		if summary != nil {
			o.state.OrderSummary = summary
			if o.state.OrderID == 0 {
				o.state.OrderID = summary.OrderID
			}
		}
		o.mu.Unlock()
	}

	o.syncNavigation()
}

// SelectOffer switches the active offer. Re-selecting the current offer is a
// no-op so incidental re-clicks cannot reset a composed kit. Pure state
// mutation, no I/O.
func (o *Orchestrator) SelectOffer(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if id == o.state.SelectedOfferID {
		return nil
	}
	if _, ok := o.cfg.Offer(id); !ok {
		return ierr.NewError("unknown offer").
			WithHintf("Offer %s is not part of this funnel", id).
			Mark(ierr.ErrNotFound)
	}

	o.applyOfferLocked(id)
	return nil
}

// applyOfferLocked sets the offer and re-derives dependent selection state
func (o *Orchestrator) applyOfferLocked(id string) {
	o.state.SelectedOfferID = id
	o.state.OfferQuantity = 1

	if offer, ok := o.cfg.Offer(id); ok && offer.IsKit() {
		o.state.KitSelection = types.DefaultKitSelection(offer.Kit)
	} else {
		o.state.KitSelection = types.KitSelection{}
	}
}

// SetOfferQuantity sets the quantity multiplier, clamped to a minimum of 1.
// Kit offers ignore the multiplier during pricing.
func (o *Orchestrator) SetOfferQuantity(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n < 1 {
		n = 1
	}
	o.state.OfferQuantity = n
}

// SetKitQuantity stores a kit product quantity, clamped to the role-derived
// minimum of the currently selected offer. Quantities below the minimum are
// silently clamped, never surfaced as an error.
func (o *Orchestrator) SetKitQuantity(sku string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.KitSelection == nil {
		o.state.KitSelection = types.KitSelection{}
	}

	minQty := 0
	if offer, ok := o.cfg.Offer(o.state.SelectedOfferID); ok && offer.IsKit() {
		if product, found := offer.Kit.Product(sku); found {
			minQty = product.Role.MinQuantity()
		}
	}
	if n < minQty {
		n = minQty
	}
	o.state.KitSelection[sku] = n
}

// CompleteCheckout records the successful payment and runs the completion
// sequence: finalize the draft order, fetch the order summary (one bounded
// retry), then advance to upsell or thank-you. Any backend failure after
// payment is degraded-continue: logged, swallowed, flow advances.
func (o *Orchestrator) CompleteCheckout(ctx context.Context, paymentRef string, address types.Address, draftOrderID string) {
	o.mu.Lock()
	if o.state.Step != types.CheckoutStepCheckout {
		o.mu.Unlock()
		o.logger.Warnw("checkout completion ignored", "step", o.state.Step)
		return
	}
	o.state.PaymentRef = paymentRef
	o.state.ShippingAddress = &address
	o.state.DraftOrderID = draftOrderID
	o.state.Step = types.CheckoutStepProcessing
	o.mu.Unlock()
	o.syncNavigation()

	result, err := o.gateway.CompleteOrder(ctx, draftOrderID, paymentRef)
	if err != nil {
		o.logger.Errorw("order completion failed", "error", err, "draft_order_id", draftOrderID)
	} else if result.OrderID > 0 {
		o.mu.Lock()
		o.state.OrderID = result.OrderID
		o.mu.Unlock()
	}

	o.fetchSummaryWithRetry(ctx)

	o.mu.Lock()
	if o.cfg.HasUpsells() {
		o.state.Step = types.CheckoutStepUpsell
	} else {
		o.state.Step = types.CheckoutStepThankYou
	}
	o.mu.Unlock()
	o.syncNavigation()
}

// fetchSummaryWithRetry waits for the payment webhook to settle, then fetches
// the summary with a single bounded retry. A missing summary is not an error.
func (o *Orchestrator) fetchSummaryWithRetry(ctx context.Context) {
	o.mu.Lock()
	orderID, paymentRef := o.state.OrderID, o.state.PaymentRef
	o.mu.Unlock()

	o.sleep(ctx, o.settleDelay)

	summary, err := o.gateway.GetOrderSummary(ctx, orderID, paymentRef)
	if err != nil {
		o.logger.Warnw("order summary fetch failed", "error", err)
	}
	if summary == nil && err == nil {
		o.sleep(ctx, o.summaryRetryDelay)
		summary, err = o.gateway.GetOrderSummary(ctx, orderID, paymentRef)
		if err != nil {
			o.logger.Warnw("order summary retry failed", "error", err)
		}
	}
	if summary == nil {
		return
	}

	o.mu.Lock()
	o.state.OrderSummary = summary
	if o.state.OrderID == 0 {
		o.state.OrderID = summary.OrderID
	}
	o.mu.Unlock()
}

// AcceptUpsell charges the current upsell offer against the original payment
// method. Requires a settled order id and payment reference; a charge failure
// is logged once and never re-prompted (silent-skip), and the flow advances
// either way.
func (o *Orchestrator) AcceptUpsell(ctx context.Context) {
	o.mu.Lock()
	if o.state.Step != types.CheckoutStepUpsell {
		o.mu.Unlock()
		return
	}
	if o.state.OrderID == 0 || o.state.PaymentRef == "" {
		o.mu.Unlock()
		o.logger.Warnw("upsell accept ignored: order not settled")
		return
	}
	offer, ok := o.currentUpsellLocked()
	orderID, paymentRef := o.state.OrderID, o.state.PaymentRef
	o.mu.Unlock()

	if !ok {
		o.advanceUpsell()
		return
	}

	err := o.gateway.ChargeUpsell(ctx, orderID, paymentRef, offer.Sku, 1, offer.DiscountPercent)
	if err != nil {
		o.logger.Errorw("upsell charge failed", "error", err, "sku", offer.Sku)
	} else {
		summary, err := o.gateway.GetOrderSummary(ctx, orderID, "")
		if err != nil {
			o.logger.Warnw("summary refresh after upsell failed", "error", err)
		} else if summary != nil {
			o.mu.Lock()
			o.state.OrderSummary = summary
			o.mu.Unlock()
		}
	}

	o.advanceUpsell()
}

// DeclineUpsell advances to the next upsell or the confirmation step without
// any network call
func (o *Orchestrator) DeclineUpsell() {
	o.mu.Lock()
	if o.state.Step != types.CheckoutStepUpsell {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	o.advanceUpsell()
}

func (o *Orchestrator) advanceUpsell() {
	o.mu.Lock()
	if o.state.UpsellIndex < len(o.cfg.UpsellOffers)-1 {
		o.state.UpsellIndex++
	} else {
		o.state.Step = types.CheckoutStepThankYou
	}
	o.mu.Unlock()
	o.syncNavigation()
}

// SubscribeOfferEvents attaches the orchestrator to the cross-section event
// channel. On receipt of a matching event the offer is selected and the step
// forced back to checkout, abandoning any in-progress order.
func (o *Orchestrator) SubscribeOfferEvents(ctx context.Context, subscriber pubsub.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, events.TopicOfferSelected)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Unable to subscribe to offer selection events").
			Mark(ierr.ErrSystem)
	}

	go func() {
		for msg := range messages {
			event, err := events.DecodeOfferSelected(msg)
			msg.Ack()
			if err != nil {
				o.logger.Warnw("dropping malformed offer event", "error", err)
				continue
			}
			if event.SessionID != "" && event.SessionID != o.sessionID {
				continue
			}
			o.handleOfferEvent(event.OfferID)
		}
	}()
	return nil
}

func (o *Orchestrator) handleOfferEvent(offerID string) {
	if err := o.SelectOffer(offerID); err != nil {
		o.logger.Warnw("ignoring offer event", "offer_id", offerID, "error", err)
		return
	}

	o.mu.Lock()
	o.state.Step = types.CheckoutStepCheckout
	o.mu.Unlock()
	o.syncNavigation()
}

// Snapshot returns a read-only copy of the session for step views, with the
// cart and price recomputed from the current selection
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	state := o.state.Clone()
	upsell, hasUpsell := o.currentUpsellLocked()
	o.mu.Unlock()

	snap := Snapshot{
		SessionID: o.sessionID,
		State:     state,
		Location:  navigation.Project(state.Step, state.OrderID, state.PaymentRef).String(),
	}
	if hasUpsell && state.Step == types.CheckoutStepUpsell {
		snap.CurrentUpsell = &upsell
	}

	offer, ok := o.cfg.Offer(state.SelectedOfferID)
	if !ok {
		return snap
	}
	snap.Offer = offer

	items, err := pricing.CartItems(offer, state.KitSelection, state.OfferQuantity)
	if err != nil {
		o.logger.Errorw("cart computation failed", "error", err)
		return snap
	}
	price, err := pricing.Summary(offer, state.KitSelection, state.OfferQuantity)
	if err != nil {
		o.logger.Errorw("price computation failed", "error", err)
		return snap
	}

	snap.CartItems = items
	snap.Price = price
	return snap
}

func (o *Orchestrator) currentUpsellLocked() (types.UpsellOffer, bool) {
	if o.state.UpsellIndex < 0 || o.state.UpsellIndex >= len(o.cfg.UpsellOffers) {
		return types.UpsellOffer{}, false
	}
	return o.cfg.UpsellOffers[o.state.UpsellIndex], true
}

func (o *Orchestrator) syncNavigation() {
	o.mu.Lock()
	step, orderID, paymentRef := o.state.Step, o.state.OrderID, o.state.PaymentRef
	o.mu.Unlock()
	o.nav.Sync(step, orderID, paymentRef)
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
