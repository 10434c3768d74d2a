package funnel

import (
	"testing"

	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"funnel_id": "fnl_123",
	"funnel_name": "Summer Sale",
	"funnel_slug": "summer-sale",
	"offers": [
		{
			"id": "offer-1",
			"name": "Single Jar",
			"type": "single",
			"single": {
				"product_sku": "JAR-1",
				"quantity": 1,
				"calculated_price": "29.99",
				"original_price": "39.99"
			}
		},
		{
			"id": "offer-2",
			"name": "Triple Pack",
			"is_featured": true,
			"type": "single",
			"single": {
				"product_sku": "JAR-1",
				"quantity": 3,
				"calculated_price": "74.99",
				"original_price": "119.97"
			}
		}
	],
	"payment_publishable_key": "pk_test_123",
	"show_upsell": true,
	"upsell_offers": [
		{"sku": "UPSELL-1", "name": "Extra Jar", "regular_price": "39.99", "offer_price": "19.99"}
	]
}`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "fnl_123", cfg.FunnelID)
	assert.Len(t, cfg.Offers, 2)
	assert.True(t, cfg.HasUpsells())
	assert.Equal(t, []string{"US"}, cfg.FreeShippingCountries, "default applies when omitted")
	assert.Equal(t, "/", cfg.LogoLink)

	offer, ok := cfg.Offer("offer-1")
	require.True(t, ok)
	assert.True(t, offer.Single.CalculatedPrice.Equal(decimal.RequireFromString("29.99")))
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.True(t, ierr.IsValidation(err))
}

func TestParseRejectsMalformedOffer(t *testing.T) {
	_, err := Parse([]byte(`{
		"funnel_id": "fnl_123",
		"offers": [{"id": "bad", "type": "single"}]
	}`))
	assert.True(t, ierr.IsValidation(err))
}

func TestValidateNotReady(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing identity", cfg: Config{Offers: []types.Offer{{}}}},
		{name: "no offers", cfg: Config{FunnelID: "fnl_123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.True(t, ierr.IsFunnelNotReady(err))
		})
	}
}

func TestResolveDefaultOfferID(t *testing.T) {
	cfg, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	// No explicit default: the featured offer wins
	assert.Equal(t, "offer-2", cfg.ResolveDefaultOfferID())

	cfg.DefaultOfferID = "offer-1"
	assert.Equal(t, "offer-1", cfg.ResolveDefaultOfferID())

	// A dangling default falls back to the featured offer
	cfg.DefaultOfferID = "offer-99"
	assert.Equal(t, "offer-2", cfg.ResolveDefaultOfferID())

	cfg.Offers[1].IsFeatured = false
	assert.Equal(t, "offer-1", cfg.ResolveDefaultOfferID())
}

func TestHasUpsells(t *testing.T) {
	cfg := Config{ShowUpsell: true}
	assert.False(t, cfg.HasUpsells(), "flag alone is not enough")

	cfg.UpsellOffers = []types.UpsellOffer{{Sku: "UPSELL-1"}}
	assert.True(t, cfg.HasUpsells())

	cfg.ShowUpsell = false
	assert.False(t, cfg.HasUpsells())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/funnel.json")
	assert.True(t, ierr.IsFunnelNotReady(err))
}
