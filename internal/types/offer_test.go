package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOfferValidate(t *testing.T) {
	single := &SingleOffer{ProductSku: "SKU-A", Quantity: 1, CalculatedPrice: decimal.NewFromInt(10)}
	bundle := &FixedBundleOffer{BundleItems: []BundleItem{{Sku: "SKU-A", Qty: 1, Price: decimal.NewFromInt(10)}}}
	kit := &CustomizableKitOffer{KitProducts: []KitProduct{{Sku: "SKU-A", Role: KitRoleMust, Qty: 1}}}

	tests := []struct {
		name    string
		offer   Offer
		wantErr bool
	}{
		{
			name:  "valid single",
			offer: Offer{ID: "o1", Type: OfferTypeSingle, Single: single},
		},
		{
			name:  "valid bundle",
			offer: Offer{ID: "o2", Type: OfferTypeFixedBundle, Bundle: bundle},
		},
		{
			name:  "valid kit",
			offer: Offer{ID: "o3", Type: OfferTypeCustomizableKit, Kit: kit},
		},
		{
			name:    "missing id",
			offer:   Offer{Type: OfferTypeSingle, Single: single},
			wantErr: true,
		},
		{
			name:    "unknown type",
			offer:   Offer{ID: "o4", Type: "subscription", Single: single},
			wantErr: true,
		},
		{
			name:    "no variant payload",
			offer:   Offer{ID: "o5", Type: OfferTypeSingle},
			wantErr: true,
		},
		{
			name:    "two variant payloads",
			offer:   Offer{ID: "o6", Type: OfferTypeSingle, Single: single, Bundle: bundle},
			wantErr: true,
		},
		{
			name:    "variant does not match type",
			offer:   Offer{ID: "o7", Type: OfferTypeSingle, Kit: kit},
			wantErr: true,
		},
		{
			name: "kit with bad role",
			offer: Offer{ID: "o8", Type: OfferTypeCustomizableKit, Kit: &CustomizableKitOffer{
				KitProducts: []KitProduct{{Sku: "SKU-A", Role: "mandatory"}},
			}},
			wantErr: true,
		},
		{
			name: "kit with bad discount type",
			offer: Offer{ID: "o9", Type: OfferTypeCustomizableKit, Kit: &CustomizableKitOffer{
				KitProducts:  []KitProduct{{Sku: "SKU-A", Role: KitRoleMust}},
				DiscountType: "bogo",
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.offer.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultKitSelection(t *testing.T) {
	kit := &CustomizableKitOffer{
		KitProducts: []KitProduct{
			{Sku: "must-preset", Role: KitRoleMust, Qty: 3},
			{Sku: "must-zero", Role: KitRoleMust, Qty: 0},
			{Sku: "opt-preset", Role: KitRoleOptional, Qty: 2},
			{Sku: "opt-zero", Role: KitRoleOptional, Qty: 0},
		},
	}

	selection := DefaultKitSelection(kit)

	assert.Equal(t, 3, selection["must-preset"])
	assert.Equal(t, 1, selection["must-zero"], "must products floor at one")
	assert.Equal(t, 2, selection["opt-preset"])
	assert.Equal(t, 0, selection["opt-zero"])
}

func TestDefaultKitSelectionNilKit(t *testing.T) {
	assert.Empty(t, DefaultKitSelection(nil))
}

func TestKitSelectionClone(t *testing.T) {
	original := KitSelection{"a": 1, "b": 2}
	clone := original.Clone()
	clone["a"] = 99

	assert.Equal(t, 1, original["a"])
	assert.Nil(t, KitSelection(nil).Clone())
}

func TestKitProductTiering(t *testing.T) {
	eight := decimal.NewFromInt(8)
	ten := decimal.NewFromInt(10)

	must := KitProduct{Role: KitRoleMust, Qty: 2, DiscountedPrice: ten, SubsequentSalePrice: &eight}
	assert.Equal(t, 2, must.TierMinQuantity())
	assert.True(t, must.HasSubsequentPrice())

	optional := KitProduct{Role: KitRoleOptional, Qty: 2, DiscountedPrice: ten}
	assert.Equal(t, 0, optional.TierMinQuantity())
	assert.False(t, optional.HasSubsequentPrice())

	// A subsequent price equal to the kit price does not split tiers
	same := KitProduct{Role: KitRoleMust, Qty: 2, DiscountedPrice: ten, SubsequentSalePrice: &ten}
	assert.False(t, same.HasSubsequentPrice())
}

func TestBundleItemUnitPrice(t *testing.T) {
	sale := decimal.NewFromInt(24)
	withSale := BundleItem{Price: decimal.NewFromInt(30), SalePrice: &sale}
	assert.True(t, withSale.UnitPrice().Equal(sale))

	withoutSale := BundleItem{Price: decimal.NewFromInt(30)}
	assert.True(t, withoutSale.UnitPrice().Equal(decimal.NewFromInt(30)))
}
