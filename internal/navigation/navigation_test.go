package navigation

import (
	"net/url"
	"testing"

	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name       string
		step       types.CheckoutStep
		orderID    int64
		paymentRef string
		want       string
	}{
		{
			name: "checkout has no identifiers",
			step: types.CheckoutStepCheckout,
			want: "/checkout/",
		},
		{
			name:       "processing drops identifiers",
			step:       types.CheckoutStepProcessing,
			orderID:    77,
			paymentRef: "pi_abc",
			want:       "/processing/",
		},
		{
			name:       "upsell carries both identifiers",
			step:       types.CheckoutStepUpsell,
			orderID:    77,
			paymentRef: "pi_abc",
			want:       "/upsell/?order_id=77&pi_id=pi_abc",
		},
		{
			name:       "thank-you with payment ref only",
			step:       types.CheckoutStepThankYou,
			paymentRef: "pi_abc",
			want:       "/thank-you/?pi_id=pi_abc",
		},
		{
			name:    "thank-you with order id only",
			step:    types.CheckoutStepThankYou,
			orderID: 42,
			want:    "/thank-you/?order_id=42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Project(tt.step, tt.orderID, tt.paymentRef)
			assert.Equal(t, tt.want, loc.String())
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want InitialState
	}{
		{
			name: "thank-you with identifiers resumes",
			raw:  "/thank-you/?order_id=77&pi_id=pi_abc",
			want: InitialState{Step: types.CheckoutStepThankYou, OrderID: 77, PaymentRef: "pi_abc", FetchSummary: true},
		},
		{
			name: "upsell with payment ref resumes",
			raw:  "/upsell/?pi_id=pi_abc",
			want: InitialState{Step: types.CheckoutStepUpsell, PaymentRef: "pi_abc", FetchSummary: true},
		},
		{
			name: "thank-you without identifier starts over",
			raw:  "/thank-you/",
			want: InitialState{Step: types.CheckoutStepCheckout},
		},
		{
			name: "processing always starts over",
			raw:  "/processing/?order_id=77",
			want: InitialState{Step: types.CheckoutStepCheckout},
		},
		{
			name: "prefixed paths match by suffix",
			raw:  "/shop/funnel/thank-you/?order_id=5",
			want: InitialState{Step: types.CheckoutStepThankYou, OrderID: 5, FetchSummary: true},
		},
		{
			name: "missing trailing slash still matches",
			raw:  "/thank-you?order_id=5",
			want: InitialState{Step: types.CheckoutStepThankYou, OrderID: 5, FetchSummary: true},
		},
		{
			name: "malformed order id is ignored",
			raw:  "/thank-you/?order_id=abc",
			want: InitialState{Step: types.CheckoutStepCheckout},
		},
		{
			name: "empty location starts at checkout",
			raw:  "",
			want: InitialState{Step: types.CheckoutStepCheckout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(loc))
		})
	}
}

func TestProjectResolveRoundTrip(t *testing.T) {
	for _, step := range []types.CheckoutStep{types.CheckoutStepUpsell, types.CheckoutStepThankYou} {
		loc := Project(step, 99, "pi_rt")
		state := Resolve(loc)
		assert.Equal(t, step, state.Step)
		assert.Equal(t, int64(99), state.OrderID)
		assert.Equal(t, "pi_rt", state.PaymentRef)
		assert.True(t, state.FetchSummary)
	}
}

// countingNavigator records Replace calls to assert write idempotency
type countingNavigator struct {
	loc      Location
	replaces int
}

func (n *countingNavigator) Current() Location { return n.loc }

func (n *countingNavigator) Replace(loc Location) {
	n.loc = loc
	n.replaces++
}

func TestSynchronizerIdempotent(t *testing.T) {
	nav := &countingNavigator{loc: Location{Path: "/", Query: url.Values{}}}
	sync := NewSynchronizer(nav)

	sync.Sync(types.CheckoutStepCheckout, 0, "")
	assert.Equal(t, 1, nav.replaces)

	// Same state again, no write
	sync.Sync(types.CheckoutStepCheckout, 0, "")
	assert.Equal(t, 1, nav.replaces)

	sync.Sync(types.CheckoutStepThankYou, 7, "pi_x")
	assert.Equal(t, 2, nav.replaces)
	assert.Equal(t, "/thank-you/?order_id=7&pi_id=pi_x", nav.loc.String())

	sync.Sync(types.CheckoutStepThankYou, 7, "pi_x")
	assert.Equal(t, 2, nav.replaces)
}

func TestSynchronizerRestore(t *testing.T) {
	nav := NewMemoryNavigator(Location{Path: "/thank-you/", Query: url.Values{"order_id": {"12"}}})
	sync := NewSynchronizer(nav)

	state := sync.Restore()
	assert.Equal(t, types.CheckoutStepThankYou, state.Step)
	assert.Equal(t, int64(12), state.OrderID)
	assert.True(t, state.FetchSummary)
}

func TestParseLocationInvalid(t *testing.T) {
	_, err := ParseLocation("://bad")
	assert.Error(t, err)
}
