package pricing

import (
	"testing"

	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func singleOffer() *types.Offer {
	return &types.Offer{
		ID:   "offer-single",
		Name: "Starter Pack",
		Type: types.OfferTypeSingle,
		Single: &types.SingleOffer{
			ProductSku:      "SKU-A",
			Quantity:        2,
			CalculatedPrice: dec("50"),
			OriginalPrice:   dec("70"),
		},
	}
}

func bundleOffer() *types.Offer {
	return &types.Offer{
		ID:   "offer-bundle",
		Name: "Family Bundle",
		Type: types.OfferTypeFixedBundle,
		Bundle: &types.FixedBundleOffer{
			BundleItems: []types.BundleItem{
				{Sku: "SKU-A", Qty: 2, Price: dec("20"), RegularPrice: dec("25")},
				{Sku: "SKU-B", Qty: 1, Price: dec("30"), SalePrice: decPtr("24"), RegularPrice: dec("30")},
			},
			CalculatedPrice: dec("64"),
			OriginalPrice:   dec("80"),
		},
	}
}

func kitOffer() *types.Offer {
	return &types.Offer{
		ID:   "offer-kit",
		Name: "Build Your Kit",
		Type: types.OfferTypeCustomizableKit,
		Kit: &types.CustomizableKitOffer{
			KitProducts: []types.KitProduct{
				{
					Sku:                 "SKU-MUST",
					Role:                types.KitRoleMust,
					Qty:                 2,
					RegularPrice:        dec("15"),
					DiscountedPrice:     dec("10"),
					SubsequentSalePrice: decPtr("8"),
				},
				{
					Sku:             "SKU-OPT",
					Role:            types.KitRoleOptional,
					Qty:             0,
					RegularPrice:    dec("12"),
					DiscountedPrice: dec("9"),
					DiscountType:    types.DiscountTypePercent,
					DiscountValue:   dec("25"),
				},
			},
		},
	}
}

func TestCartItemsSingle(t *testing.T) {
	items, err := CartItems(singleOffer(), nil, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "SKU-A", items[0].Sku)
	assert.Equal(t, 6, items[0].Qty)
	assert.True(t, items[0].SalePrice.Equal(dec("25")), "unit price should be 50/2")
	require.NotNil(t, items[0].RegularPrice)
	assert.True(t, items[0].RegularPrice.Equal(dec("35")))
}

func TestCartItemsSingleClampsQuantity(t *testing.T) {
	items, err := CartItems(singleOffer(), nil, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
}

func TestCartItemsBundle(t *testing.T) {
	items, err := CartItems(bundleOffer(), nil, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "SKU-A", items[0].Sku)
	assert.Equal(t, 4, items[0].Qty)
	assert.True(t, items[0].SalePrice.Equal(dec("20")))

	assert.Equal(t, "SKU-B", items[1].Sku)
	assert.Equal(t, 2, items[1].Qty)
	assert.True(t, items[1].SalePrice.Equal(dec("24")), "sale price overrides base price")
}

func TestCartItemsKitTierSplit(t *testing.T) {
	// Required minimum 2 at the kit price, one extra unit at the subsequent price
	items, err := CartItems(kitOffer(), types.KitSelection{"SKU-MUST": 3}, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "SKU-MUST", items[0].Sku)
	assert.Equal(t, 2, items[0].Qty)
	assert.True(t, items[0].SalePrice.Equal(dec("10")))
	assert.Equal(t, types.CartItemLabelIncluded, items[0].Label)

	assert.Equal(t, "SKU-MUST", items[1].Sku)
	assert.Equal(t, 1, items[1].Qty)
	assert.True(t, items[1].SalePrice.Equal(dec("8")))
	assert.Empty(t, items[1].Label)
}

func TestCartItemsKitAtMinimumNoSplit(t *testing.T) {
	items, err := CartItems(kitOffer(), types.KitSelection{"SKU-MUST": 2}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assert.True(t, items[0].SalePrice.Equal(dec("10")))
	assert.Empty(t, items[0].Label)
}

func TestCartItemsKitOptionalCarriesDiscountPercent(t *testing.T) {
	items, err := CartItems(kitOffer(), types.KitSelection{"SKU-OPT": 2}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-OPT", items[0].Sku)
	require.NotNil(t, items[0].ItemDiscountPercent)
	assert.True(t, items[0].ItemDiscountPercent.Equal(dec("25")))
}

func TestCartItemsKitSkipsZeroQuantities(t *testing.T) {
	items, err := CartItems(kitOffer(), types.KitSelection{"SKU-MUST": 2, "SKU-OPT": 0}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-MUST", items[0].Sku)
}

func TestCartItemsKitIgnoresOfferQuantity(t *testing.T) {
	selection := types.KitSelection{"SKU-MUST": 2}
	base, err := CartItems(kitOffer(), selection, 1)
	require.NoError(t, err)
	scaled, err := CartItems(kitOffer(), selection, 5)
	require.NoError(t, err)
	assert.Equal(t, base, scaled)
}

func TestCartItemsNilOffer(t *testing.T) {
	_, err := CartItems(nil, nil, 1)
	assert.Error(t, err)
}

func TestCartItemsDeterministic(t *testing.T) {
	selection := types.KitSelection{"SKU-MUST": 3, "SKU-OPT": 1}
	first, err := CartItems(kitOffer(), selection, 1)
	require.NoError(t, err)
	second, err := CartItems(kitOffer(), selection, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarySingleScalesWithQuantity(t *testing.T) {
	summary, err := Summary(singleOffer(), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "150", summary.Discounted.String())
	assert.Equal(t, "210", summary.Original.String())
}

func TestSummaryBundle(t *testing.T) {
	summary, err := Summary(bundleOffer(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "64", summary.Discounted.String())
	assert.Equal(t, "80", summary.Original.String())
}

func TestSummaryKitDiscounts(t *testing.T) {
	tests := []struct {
		name           string
		discountType   types.DiscountType
		discountValue  decimal.Decimal
		selection      types.KitSelection
		wantDiscounted string
		wantOriginal   string
	}{
		{
			name:           "no kit discount",
			discountType:   types.DiscountTypeNone,
			selection:      types.KitSelection{"SKU-MUST": 2},
			wantDiscounted: "20",
			wantOriginal:   "30",
		},
		{
			name:           "percent discount",
			discountType:   types.DiscountTypePercent,
			discountValue:  dec("10"),
			selection:      types.KitSelection{"SKU-MUST": 2},
			wantDiscounted: "18",
			wantOriginal:   "30",
		},
		{
			name:           "full percent discount reaches zero",
			discountType:   types.DiscountTypePercent,
			discountValue:  dec("100"),
			selection:      types.KitSelection{"SKU-MUST": 2},
			wantDiscounted: "0",
			wantOriginal:   "30",
		},
		{
			name:           "fixed discount",
			discountType:   types.DiscountTypeFixed,
			discountValue:  dec("5"),
			selection:      types.KitSelection{"SKU-MUST": 2},
			wantDiscounted: "15",
			wantOriginal:   "30",
		},
		{
			name:           "fixed discount floors at zero",
			discountType:   types.DiscountTypeFixed,
			discountValue:  dec("500"),
			selection:      types.KitSelection{"SKU-MUST": 2},
			wantDiscounted: "0",
			wantOriginal:   "30",
		},
		{
			name:           "tiered units feed the subtotal",
			discountType:   types.DiscountTypeNone,
			selection:      types.KitSelection{"SKU-MUST": 3},
			wantDiscounted: "28",
			wantOriginal:   "45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := kitOffer()
			offer.Kit.DiscountType = tt.discountType
			offer.Kit.DiscountValue = tt.discountValue

			summary, err := Summary(offer, tt.selection, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDiscounted, summary.Discounted.String())
			assert.Equal(t, tt.wantOriginal, summary.Original.String())
		})
	}
}

func TestSummaryRoundsAtFinalTotal(t *testing.T) {
	offer := kitOffer()
	offer.Kit.DiscountType = types.DiscountTypePercent
	offer.Kit.DiscountValue = dec("33.33")

	// 20 * (1 - 0.3333) = 13.334, rounded once at the end
	summary, err := Summary(offer, types.KitSelection{"SKU-MUST": 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, "13.33", summary.Discounted.String())
}
