package pricing

import (
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/shopspring/decimal"
)

// The pricing engine is pure and synchronous: identical inputs yield identical
// outputs, so callers recompute on every selection change without caching.
// Monetary results are rounded to 2 decimal places at the final total only,
// never per line item.

var hundred = decimal.NewFromInt(100)

// CartItems expands the current selection into cart line items.
//
// single: one line at calculated_price/quantity, quantity scaled by offerQuantity.
// fixed_bundle: one line per bundle item, quantities scaled by offerQuantity.
// customizable_kit: one line per selected product, split into a second line at
// the subsequent sale price when the chosen quantity exceeds the required
// minimum of a must product. Kit offers ignore offerQuantity entirely.
func CartItems(offer *types.Offer, selection types.KitSelection, offerQuantity int) ([]types.CartItem, error) {
	if offer == nil {
		return nil, ierr.NewError("no offer selected").
			WithHint("An offer must be selected before building the cart").
			Mark(ierr.ErrInvalidOperation)
	}
	if offerQuantity < 1 {
		offerQuantity = 1
	}

	switch offer.Type {
	case types.OfferTypeSingle:
		return singleCartItems(offer.Single, offerQuantity), nil
	case types.OfferTypeFixedBundle:
		return bundleCartItems(offer.Bundle, offerQuantity), nil
	case types.OfferTypeCustomizableKit:
		return kitCartItems(offer.Kit, selection), nil
	default:
		return nil, ierr.NewError("invalid offer type").
			WithHintf("unknown offer type: %s", offer.Type).
			Mark(ierr.ErrValidation)
	}
}

// Summary computes the display price pair for the current selection
func Summary(offer *types.Offer, selection types.KitSelection, offerQuantity int) (types.PriceSummary, error) {
	if offer == nil {
		return types.PriceSummary{}, ierr.NewError("no offer selected").
			WithHint("An offer must be selected before computing a price").
			Mark(ierr.ErrInvalidOperation)
	}
	if offerQuantity < 1 {
		offerQuantity = 1
	}
	multiplier := decimal.NewFromInt(int64(offerQuantity))

	switch offer.Type {
	case types.OfferTypeSingle:
		return types.PriceSummary{
			Original:   offer.Single.OriginalPrice.Mul(multiplier).Round(2),
			Discounted: offer.Single.CalculatedPrice.Mul(multiplier).Round(2),
		}, nil
	case types.OfferTypeFixedBundle:
		return types.PriceSummary{
			Original:   offer.Bundle.OriginalPrice.Mul(multiplier).Round(2),
			Discounted: offer.Bundle.CalculatedPrice.Mul(multiplier).Round(2),
		}, nil
	case types.OfferTypeCustomizableKit:
		return kitSummary(offer.Kit, selection), nil
	default:
		return types.PriceSummary{}, ierr.NewError("invalid offer type").
			WithHintf("unknown offer type: %s", offer.Type).
			Mark(ierr.ErrValidation)
	}
}

func singleCartItems(single *types.SingleOffer, offerQuantity int) []types.CartItem {
	perUnitQty := single.Quantity
	if perUnitQty < 1 {
		perUnitQty = 1
	}
	unitPrice := single.CalculatedPrice.Div(decimal.NewFromInt(int64(perUnitQty)))

	item := types.CartItem{
		Sku:       single.ProductSku,
		Qty:       perUnitQty * offerQuantity,
		SalePrice: unitPrice,
	}
	if single.OriginalPrice.IsPositive() {
		regular := single.OriginalPrice.Div(decimal.NewFromInt(int64(perUnitQty)))
		item.RegularPrice = &regular
	}
	return []types.CartItem{item}
}

func bundleCartItems(bundle *types.FixedBundleOffer, offerQuantity int) []types.CartItem {
	items := make([]types.CartItem, 0, len(bundle.BundleItems))
	for _, b := range bundle.BundleItems {
		regular := b.RegularPrice
		items = append(items, types.CartItem{
			Sku:          b.Sku,
			Qty:          b.Qty * offerQuantity,
			SalePrice:    b.UnitPrice(),
			RegularPrice: &regular,
		})
	}
	return items
}

func kitCartItems(kit *types.CustomizableKitOffer, selection types.KitSelection) []types.CartItem {
	items := make([]types.CartItem, 0, len(kit.KitProducts))
	for _, p := range kit.KitProducts {
		selected := selection[p.Sku]
		if selected <= 0 {
			continue
		}

		minQty := p.TierMinQuantity()
		if p.Role == types.KitRoleMust && selected > minQty && p.HasSubsequentPrice() {
			// Required units at the kit price, additional units at the
			// subsequent price.
			if minQty > 0 {
				items = append(items, types.CartItem{
					Sku:       p.Sku,
					Qty:       minQty,
					SalePrice: p.DiscountedPrice,
					Label:     types.CartItemLabelIncluded,
				})
			}
			items = append(items, types.CartItem{
				Sku:       p.Sku,
				Qty:       selected - minQty,
				SalePrice: *p.SubsequentSalePrice,
			})
			continue
		}

		item := types.CartItem{
			Sku:       p.Sku,
			Qty:       selected,
			SalePrice: p.DiscountedPrice,
		}
		if p.DiscountType == types.DiscountTypePercent && p.DiscountValue.IsPositive() {
			v := p.DiscountValue
			item.ItemDiscountPercent = &v
		}
		items = append(items, item)
	}
	return items
}

func kitSummary(kit *types.CustomizableKitOffer, selection types.KitSelection) types.PriceSummary {
	subtotal := decimal.Zero
	original := decimal.Zero

	for _, item := range kitCartItems(kit, selection) {
		subtotal = subtotal.Add(item.LineTotal())
	}
	// Original price for display is independent of discount tiering
	for _, p := range kit.KitProducts {
		selected := selection[p.Sku]
		if selected <= 0 {
			continue
		}
		original = original.Add(p.RegularPrice.Mul(decimal.NewFromInt(int64(selected))))
	}

	discounted := applyKitDiscount(subtotal, kit.DiscountType, kit.DiscountValue)

	return types.PriceSummary{
		Original:   original.Round(2),
		Discounted: discounted.Round(2),
	}
}

func applyKitDiscount(subtotal decimal.Decimal, discountType types.DiscountType, value decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() {
		return subtotal
	}
	switch discountType {
	case types.DiscountTypePercent:
		return subtotal.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case types.DiscountTypeFixed:
		discounted := subtotal.Sub(value)
		if discounted.IsNegative() {
			return decimal.Zero
		}
		return discounted
	default:
		return subtotal
	}
}
