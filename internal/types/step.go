package types

import (
	ierr "github.com/funnelkit/funnelkit/internal/errors"
)

// CheckoutStep represents the current step of the funnel checkout flow
type CheckoutStep string

const (
	// CheckoutStepCheckout is the initial offer selection and payment step
	CheckoutStepCheckout CheckoutStep = "checkout"
	// CheckoutStepProcessing is the transient step while the order is finalized
	CheckoutStepProcessing CheckoutStep = "processing"
	// CheckoutStepUpsell is the post-purchase one-click upsell step
	CheckoutStepUpsell CheckoutStep = "upsell"
	// CheckoutStepThankYou is the terminal order confirmation step
	CheckoutStepThankYou CheckoutStep = "thankyou"
)

func (s CheckoutStep) String() string {
	return string(s)
}

func (s CheckoutStep) Validate() error {
	switch s {
	case CheckoutStepCheckout, CheckoutStepProcessing, CheckoutStepUpsell, CheckoutStepThankYou:
		return nil
	default:
		return ierr.NewError("invalid checkout step").
			WithHintf("unknown checkout step: %s", s).
			Mark(ierr.ErrValidation)
	}
}

// IsTerminal reports whether no further transitions are possible from this step
func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepThankYou
}
