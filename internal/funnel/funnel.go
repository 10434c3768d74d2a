package funnel

import (
	"os"

	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the immutable funnel checkout document handed to the core at
// construction. It mirrors what the content backend publishes per funnel.
type Config struct {
	FunnelID   string `json:"funnel_id"`
	FunnelName string `json:"funnel_name"`
	FunnelSlug string `json:"funnel_slug"`

	Offers         []types.Offer `json:"offers"`
	DefaultOfferID string        `json:"default_offer_id,omitempty"`

	LogoURL    string `json:"logo_url,omitempty"`
	LogoLink   string `json:"logo_link,omitempty"`
	LandingURL string `json:"landing_url,omitempty"`

	FreeShippingCountries []string `json:"free_shipping_countries,omitempty"`
	EnablePoints          bool     `json:"enable_points"`
	EnableCustomerLookup  bool     `json:"enable_customer_lookup"`

	PaymentPublishableKey string `json:"payment_publishable_key"`
	PaymentMode           string `json:"payment_mode,omitempty"`

	UpsellOffers []types.UpsellOffer `json:"upsell_offers,omitempty"`
	ShowUpsell   bool                `json:"show_upsell"`

	ThankYouHeadline string `json:"thank_you_headline,omitempty"`
	ThankYouMessage  string `json:"thank_you_message,omitempty"`
	AccentColor      string `json:"accent_color,omitempty"`
	FooterText       string `json:"footer_text,omitempty"`
	FooterDisclaimer string `json:"footer_disclaimer,omitempty"`
}

// Validate reports whether the document is complete enough to mount a funnel.
// Configuration may arrive asynchronously, so an incomplete document is a
// not-ready condition rather than a hard failure.
func (c *Config) Validate() error {
	if c.FunnelID == "" {
		return ierr.NewError("funnel identity missing").
			WithHint("The funnel is still initializing").
			Mark(ierr.ErrFunnelNotReady)
	}
	if len(c.Offers) == 0 {
		return ierr.NewError("funnel has no offers").
			WithHint("The funnel is still initializing").
			Mark(ierr.ErrFunnelNotReady)
	}
	for i := range c.Offers {
		if err := c.Offers[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Offer returns the offer with the given id, if present
func (c *Config) Offer(id string) (*types.Offer, bool) {
	for i := range c.Offers {
		if c.Offers[i].ID == id {
			return &c.Offers[i], true
		}
	}
	return nil, false
}

// ResolveDefaultOfferID picks the initial selection: the configured default,
// else the featured offer, else the first offer
func (c *Config) ResolveDefaultOfferID() string {
	if c.DefaultOfferID != "" {
		if _, ok := c.Offer(c.DefaultOfferID); ok {
			return c.DefaultOfferID
		}
	}
	if featured, ok := lo.Find(c.Offers, func(o types.Offer) bool { return o.IsFeatured }); ok {
		return featured.ID
	}
	if len(c.Offers) > 0 {
		return c.Offers[0].ID
	}
	return ""
}

// HasUpsells reports whether the funnel has any upsell step to show
func (c *Config) HasUpsells() bool {
	return c.ShowUpsell && len(c.UpsellOffers) > 0
}

// Load reads and validates a funnel document from disk
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unable to read funnel config at %s", path).
			Mark(ierr.ErrFunnelNotReady)
	}
	return Parse(data)
}

// Parse decodes and validates a funnel document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Funnel config is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.FreeShippingCountries) == 0 {
		cfg.FreeShippingCountries = []string{"US"}
	}
	if cfg.LogoLink == "" {
		cfg.LogoLink = "/"
	}
	return &cfg, nil
}
