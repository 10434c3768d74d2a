package dto

import (
	"github.com/funnelkit/funnelkit/internal/funnel"
	"github.com/funnelkit/funnelkit/internal/service"
	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/funnelkit/funnelkit/internal/validator"
)

// CreateSessionRequest mounts a new checkout session. Location carries the
// visitor's current browser path and query so a reload mid-flow resumes the
// correct step.
type CreateSessionRequest struct {
	Location string `json:"location,omitempty"`
}

// SelectOfferRequest switches the active offer
type SelectOfferRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
}

func (r *SelectOfferRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SetQuantityRequest sets the offer quantity multiplier. Values below the
// minimum are clamped by the orchestrator, not rejected here.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func (r *SetQuantityRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SetKitQuantityRequest sets the chosen quantity for one kit product
type SetKitQuantityRequest struct {
	Sku      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

func (r *SetKitQuantityRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CompleteCheckoutRequest reports a successful payment authorization
type CompleteCheckoutRequest struct {
	PaymentRef      string        `json:"pi_id" validate:"required"`
	DraftOrderID    string        `json:"order_draft_id" validate:"required"`
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
}

func (r *CompleteCheckoutRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SessionResponse is the read-only session snapshot served to step views
type SessionResponse struct {
	SessionID       string              `json:"session_id"`
	Step            types.CheckoutStep  `json:"step"`
	Location        string              `json:"location"`
	SelectedOfferID string              `json:"selected_offer_id"`
	Offer           *types.Offer        `json:"offer,omitempty"`
	OfferQuantity   int                 `json:"offer_quantity"`
	KitSelection    types.KitSelection  `json:"kit_selection,omitempty"`
	CartItems       []types.CartItem    `json:"cart_items"`
	Price           types.PriceSummary  `json:"price"`
	OrderID         int64               `json:"order_id,omitempty"`
	PaymentRef      string              `json:"pi_id,omitempty"`
	OrderSummary    *types.OrderSummary `json:"order_summary,omitempty"`
	UpsellIndex     int                 `json:"upsell_index"`
	CurrentUpsell   *types.UpsellOffer  `json:"current_upsell,omitempty"`
}

// ToSessionResponse converts an orchestrator snapshot into its API shape
func ToSessionResponse(snap service.Snapshot) SessionResponse {
	return SessionResponse{
		SessionID:       snap.SessionID,
		Step:            snap.State.Step,
		Location:        snap.Location,
		SelectedOfferID: snap.State.SelectedOfferID,
		Offer:           snap.Offer,
		OfferQuantity:   snap.State.OfferQuantity,
		KitSelection:    snap.State.KitSelection,
		CartItems:       snap.CartItems,
		Price:           snap.Price,
		OrderID:         snap.State.OrderID,
		PaymentRef:      snap.State.PaymentRef,
		OrderSummary:    snap.State.OrderSummary,
		UpsellIndex:     snap.State.UpsellIndex,
		CurrentUpsell:   snap.CurrentUpsell,
	}
}

// FunnelResponse is the immutable funnel document served to step views
type FunnelResponse struct {
	FunnelID              string              `json:"funnel_id"`
	FunnelName            string              `json:"funnel_name"`
	FunnelSlug            string              `json:"funnel_slug"`
	Offers                []types.Offer       `json:"offers"`
	DefaultOfferID        string              `json:"default_offer_id,omitempty"`
	LogoURL               string              `json:"logo_url,omitempty"`
	LogoLink              string              `json:"logo_link,omitempty"`
	LandingURL            string              `json:"landing_url,omitempty"`
	FreeShippingCountries []string            `json:"free_shipping_countries"`
	EnablePoints          bool                `json:"enable_points"`
	EnableCustomerLookup  bool                `json:"enable_customer_lookup"`
	PaymentPublishableKey string              `json:"payment_publishable_key"`
	PaymentMode           string              `json:"payment_mode,omitempty"`
	UpsellOffers          []types.UpsellOffer `json:"upsell_offers,omitempty"`
	ShowUpsell            bool                `json:"show_upsell"`
	ThankYouHeadline      string              `json:"thank_you_headline,omitempty"`
	ThankYouMessage       string              `json:"thank_you_message,omitempty"`
	AccentColor           string              `json:"accent_color,omitempty"`
	FooterText            string              `json:"footer_text,omitempty"`
	FooterDisclaimer      string              `json:"footer_disclaimer,omitempty"`
}

// ToFunnelResponse converts the funnel document into its API shape
func ToFunnelResponse(cfg *funnel.Config) FunnelResponse {
	return FunnelResponse{
		FunnelID:              cfg.FunnelID,
		FunnelName:            cfg.FunnelName,
		FunnelSlug:            cfg.FunnelSlug,
		Offers:                cfg.Offers,
		DefaultOfferID:        cfg.DefaultOfferID,
		LogoURL:               cfg.LogoURL,
		LogoLink:              cfg.LogoLink,
		LandingURL:            cfg.LandingURL,
		FreeShippingCountries: cfg.FreeShippingCountries,
		EnablePoints:          cfg.EnablePoints,
		EnableCustomerLookup:  cfg.EnableCustomerLookup,
		PaymentPublishableKey: cfg.PaymentPublishableKey,
		PaymentMode:           cfg.PaymentMode,
		UpsellOffers:          cfg.UpsellOffers,
		ShowUpsell:            cfg.ShowUpsell,
		ThankYouHeadline:      cfg.ThankYouHeadline,
		ThankYouMessage:       cfg.ThankYouMessage,
		AccentColor:           cfg.AccentColor,
		FooterText:            cfg.FooterText,
		FooterDisclaimer:      cfg.FooterDisclaimer,
	}
}
