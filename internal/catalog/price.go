package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// DisplayPrice is the base price plus the resolved variant's adjustment.
// Both go through models.ZeroFallback.
func DisplayPrice(base models.Amount, resolved *models.Variant) decimal.Decimal {
	price := models.ZeroFallback(base)
	if resolved != nil {
		price = price.Add(models.ZeroFallback(resolved.PriceAdjustment))
	}
	return price
}

// FormatPrice renders a price in dollars with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// EffectiveImage is the resolved variant's image when it has one, else the product image.
func EffectiveImage(p *models.Product, resolved *models.Variant) string {
	if resolved != nil && resolved.ImageURL != "" {
		return resolved.ImageURL
	}
	if p == nil {
		return ""
	}
	return p.Image
}

// ImageURL places a storage path under the asset host's /storage/ prefix.
func ImageURL(assetBase, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(assetBase, "/") + "/storage/" + strings.TrimLeft(path, "/")
}

// Evaluation is everything the product page derives from a product and a selection.
type Evaluation struct {
	Colors      []string
	Sizes       []string
	Variant     *models.Variant
	Unavailable bool
	Price       decimal.Decimal
	Image       string
}

// Evaluate applies the resolver and the price calculator to a product.
func Evaluate(p *models.Product, sel Selection) Evaluation {
	variant, _ := Resolve(p.Variants, sel)
	return Evaluation{
		Colors:      ColorOptions(p.Variants),
		Sizes:       SizeOptions(p.Variants),
		Variant:     variant,
		Unavailable: sel.Complete() && variant == nil,
		Price:       DisplayPrice(p.Price, variant),
		Image:       EffectiveImage(p, variant),
	}
}
