package navigation

import (
	"net/url"
	"strconv"
	"strings"

	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/types"
)

// Canonical browser-visible path suffixes, one per checkout step
const (
	PathCheckout   = "/checkout/"
	PathProcessing = "/processing/"
	PathUpsell     = "/upsell/"
	PathThankYou   = "/thank-you/"
)

// Query parameter names carried on the upsell and thank-you paths
const (
	QueryOrderID    = "order_id"
	QueryPaymentRef = "pi_id"
)

// Location is a browser-visible navigation state: a path plus query values
type Location struct {
	Path  string
	Query url.Values
}

// String renders the location as a path with an encoded query suffix
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Equal compares path and query; used to keep browser writes idempotent
func (l Location) Equal(other Location) bool {
	return normalizePath(l.Path) == normalizePath(other.Path) &&
		l.Query.Encode() == other.Query.Encode()
}

// InitialState is the inverse mapping of a location, used to resume mid-flow
// after a reload. FetchSummary is set when the resumed step carries an order
// identifier and an immediate summary fetch is owed.
type InitialState struct {
	Step         types.CheckoutStep
	OrderID      int64
	PaymentRef   string
	FetchSummary bool
}

// Project maps funnel state to its canonical browser location. Pure; the
// inverse is Resolve.
func Project(step types.CheckoutStep, orderID int64, paymentRef string) Location {
	loc := Location{Query: url.Values{}}

	switch step {
	case types.CheckoutStepProcessing:
		loc.Path = PathProcessing
	case types.CheckoutStepUpsell:
		loc.Path = PathUpsell
	case types.CheckoutStepThankYou:
		loc.Path = PathThankYou
	default:
		loc.Path = PathCheckout
	}

	if step == types.CheckoutStepUpsell || step == types.CheckoutStepThankYou {
		if orderID > 0 {
			loc.Query.Set(QueryOrderID, strconv.FormatInt(orderID, 10))
		}
		if paymentRef != "" {
			loc.Query.Set(QueryPaymentRef, paymentRef)
		}
	}

	return loc
}

// Resolve maps a browser location back to the step to initialize into. Only
// the upsell and thank-you paths resume mid-flow, and only when they carry an
// order identifier; everything else starts at checkout.
func Resolve(loc Location) InitialState {
	path := normalizePath(loc.Path)
	orderID := parseOrderID(loc.Query.Get(QueryOrderID))
	paymentRef := loc.Query.Get(QueryPaymentRef)
	hasIdentifier := orderID > 0 || paymentRef != ""

	switch {
	case strings.HasSuffix(path, normalizePath(PathThankYou)) && hasIdentifier:
		return InitialState{
			Step:         types.CheckoutStepThankYou,
			OrderID:      orderID,
			PaymentRef:   paymentRef,
			FetchSummary: true,
		}
	case strings.HasSuffix(path, normalizePath(PathUpsell)) && hasIdentifier:
		return InitialState{
			Step:         types.CheckoutStepUpsell,
			OrderID:      orderID,
			PaymentRef:   paymentRef,
			FetchSummary: true,
		}
	default:
		return InitialState{Step: types.CheckoutStepCheckout}
	}
}

// ParseLocation splits a raw path-with-query string into a Location
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, ierr.WithError(err).
			WithHintf("Invalid navigation path: %s", raw).
			Mark(ierr.ErrValidation)
	}
	return Location{Path: u.Path, Query: u.Query()}, nil
}

// Navigator is the browser-state port: the host environment exposes the
// current visible location and a way to replace it without adding history
// entries.
type Navigator interface {
	Current() Location
	Replace(loc Location)
}

// Synchronizer keeps the visible location in a 1:1 mapping with funnel state.
// Writes are idempotent: a replace is issued only when the computed target
// differs from the current location.
type Synchronizer struct {
	nav Navigator
}

func NewSynchronizer(nav Navigator) *Synchronizer {
	return &Synchronizer{nav: nav}
}

// Sync mirrors the given state into the browser location
func (s *Synchronizer) Sync(step types.CheckoutStep, orderID int64, paymentRef string) {
	if s == nil || s.nav == nil {
		return
	}
	target := Project(step, orderID, paymentRef)
	if target.Equal(s.nav.Current()) {
		return
	}
	s.nav.Replace(target)
}

// Restore resolves the current browser location into an initial state
func (s *Synchronizer) Restore() InitialState {
	if s == nil || s.nav == nil {
		return InitialState{Step: types.CheckoutStepCheckout}
	}
	return Resolve(s.nav.Current())
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func parseOrderID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
