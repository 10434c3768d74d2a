package types

import (
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OfferType discriminates the three purchasable offer shapes
type OfferType string

const (
	// OfferTypeSingle is one product SKU sold at a fixed quantity per unit
	OfferTypeSingle OfferType = "single"
	// OfferTypeFixedBundle is an admin-curated list of items with no customer choice
	OfferTypeFixedBundle OfferType = "fixed_bundle"
	// OfferTypeCustomizableKit is a role-based kit the customer composes
	OfferTypeCustomizableKit OfferType = "customizable_kit"
)

func (t OfferType) Validate() error {
	switch t {
	case OfferTypeSingle, OfferTypeFixedBundle, OfferTypeCustomizableKit:
		return nil
	default:
		return ierr.NewError("invalid offer type").
			WithHintf("unknown offer type: %s", t).
			Mark(ierr.ErrValidation)
	}
}

// KitRole marks a kit product as mandatory or elective
type KitRole string

const (
	KitRoleMust     KitRole = "must"
	KitRoleOptional KitRole = "optional"
)

func (r KitRole) Validate() error {
	switch r {
	case KitRoleMust, KitRoleOptional:
		return nil
	default:
		return ierr.NewError("invalid kit role").
			WithHintf("unknown kit role: %s", r).
			Mark(ierr.ErrValidation)
	}
}

// MinQuantity is the lowest quantity a customer may select for this role
func (r KitRole) MinQuantity() int {
	if r == KitRoleMust {
		return 1
	}
	return 0
}

// DiscountType is the kind of discount applied at the kit (or kit product) level
type DiscountType string

const (
	DiscountTypeNone    DiscountType = "none"
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

func (t DiscountType) Validate() error {
	switch t {
	case DiscountTypeNone, DiscountTypePercent, DiscountTypeFixed, "":
		return nil
	default:
		return ierr.NewError("invalid discount type").
			WithHintf("unknown discount type: %s", t).
			Mark(ierr.ErrValidation)
	}
}

// SingleOffer sells one SKU at a fixed quantity per unit
type SingleOffer struct {
	ProductSku      string          `json:"product_sku"`
	Quantity        int             `json:"quantity"`
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
}

// BundleItem is one line of a fixed bundle
type BundleItem struct {
	Sku          string           `json:"sku"`
	Qty          int              `json:"qty"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	RegularPrice decimal.Decimal  `json:"regular_price"`
}

// UnitPrice resolves the effective per-unit price for the bundle item.
// The admin-set sale price overrides the base price when present.
func (b BundleItem) UnitPrice() decimal.Decimal {
	if b.SalePrice != nil {
		return *b.SalePrice
	}
	return b.Price
}

// FixedBundleOffer is an ordered list of bundle items with no customer choice
type FixedBundleOffer struct {
	BundleItems     []BundleItem    `json:"bundle_items"`
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
}

// KitProduct is one configurable product inside a customizable kit
type KitProduct struct {
	Sku          string          `json:"sku"`
	Name         string          `json:"name,omitempty"`
	Role         KitRole         `json:"role"`
	Qty          int             `json:"qty"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	// DiscountedPrice is the per-unit kit price for units up to the required
	// minimum; SubsequentSalePrice, when set, prices the units beyond it
	DiscountedPrice     decimal.Decimal  `json:"discounted_price"`
	SubsequentSalePrice *decimal.Decimal `json:"subsequent_sale_price,omitempty"`
	DiscountType        DiscountType     `json:"discount_type,omitempty"`
	DiscountValue       decimal.Decimal  `json:"discount_value,omitempty"`
}

// TierMinQuantity is the quantity threshold at which tiered pricing splits:
// the admin-set qty for must products, zero for optional ones
func (p KitProduct) TierMinQuantity() int {
	if p.Role == KitRoleMust {
		return p.Qty
	}
	return 0
}

// HasSubsequentPrice reports whether a distinct beyond-minimum unit price applies
func (p KitProduct) HasSubsequentPrice() bool {
	return p.SubsequentSalePrice != nil && !p.SubsequentSalePrice.Equal(p.DiscountedPrice)
}

// CustomizableKitOffer is a role-based kit with an optional kit-level discount
type CustomizableKitOffer struct {
	KitProducts   []KitProduct    `json:"kit_products"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// Product returns the kit product with the given sku, if any
func (k *CustomizableKitOffer) Product(sku string) (KitProduct, bool) {
	return lo.Find(k.KitProducts, func(p KitProduct) bool {
		return p.Sku == sku
	})
}

// Offer is a closed sum over the three purchasable shapes. Exactly one of the
// variant pointers is non-nil and it always matches Type.
type Offer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Badge       string    `json:"badge,omitempty"`
	Image       string    `json:"image,omitempty"`
	IsFeatured  bool      `json:"is_featured,omitempty"`
	Type        OfferType `json:"type"`

	Single *SingleOffer          `json:"single,omitempty"`
	Bundle *FixedBundleOffer     `json:"fixed_bundle,omitempty"`
	Kit    *CustomizableKitOffer `json:"customizable_kit,omitempty"`
}

// Validate enforces the single-active-variant invariant
func (o *Offer) Validate() error {
	if o.ID == "" {
		return ierr.NewError("offer id is required").
			WithHint("Offer is missing an id").
			Mark(ierr.ErrValidation)
	}
	if err := o.Type.Validate(); err != nil {
		return err
	}

	variants := 0
	if o.Single != nil {
		variants++
	}
	if o.Bundle != nil {
		variants++
	}
	if o.Kit != nil {
		variants++
	}
	if variants != 1 {
		return ierr.NewError("offer must carry exactly one variant").
			WithHintf("Offer %s carries %d variant payloads", o.ID, variants).
			WithReportableDetails(map[string]any{"offer_id": o.ID}).
			Mark(ierr.ErrValidation)
	}

	var matches bool
	switch o.Type {
	case OfferTypeSingle:
		matches = o.Single != nil
	case OfferTypeFixedBundle:
		matches = o.Bundle != nil
	case OfferTypeCustomizableKit:
		matches = o.Kit != nil
	}
	if !matches {
		return ierr.NewError("offer variant does not match its type").
			WithHintf("Offer %s is declared %s but carries a different payload", o.ID, o.Type).
			Mark(ierr.ErrValidation)
	}

	if o.Kit != nil {
		if err := o.Kit.DiscountType.Validate(); err != nil {
			return err
		}
		for _, p := range o.Kit.KitProducts {
			if err := p.Role.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsKit reports whether this offer is a customizable kit
func (o *Offer) IsKit() bool {
	return o.Type == OfferTypeCustomizableKit
}

// KitSelection maps a kit product sku to the quantity the customer chose
type KitSelection map[string]int

// Clone returns an independent copy of the selection
func (s KitSelection) Clone() KitSelection {
	if s == nil {
		return nil
	}
	out := make(KitSelection, len(s))
	for sku, qty := range s {
		out[sku] = qty
	}
	return out
}

// DefaultKitSelection derives the initial selection for a kit offer: the
// admin-set quantity per product, floored at the role minimum
func DefaultKitSelection(kit *CustomizableKitOffer) KitSelection {
	if kit == nil {
		return KitSelection{}
	}
	selection := make(KitSelection, len(kit.KitProducts))
	for _, p := range kit.KitProducts {
		selection[p.Sku] = lo.Max([]int{p.Role.MinQuantity(), p.Qty})
	}
	return selection
}
