// Package catalog holds the product-page rules: which variant the shopper's
// color and size choice points at, which choices to offer and what to charge.
package catalog

import "storefront/internal/models"

// UnavailableMessage is shown when a complete selection matches no variant.
const UnavailableMessage = "The selected combination is unavailable. Please choose a different size or color."

// nanColor marks a missing color in malformed catalog data.
const nanColor = "NaN"

// Selection is the shopper's color and size choice. A nil field is unset,
// which is different from choosing the empty string.
type Selection struct {
	Color *string
	Size  *string
}

// Choose returns a set selection field.
func Choose(v string) *string {
	return &v
}

// Complete reports whether both color and size are chosen.
func (s Selection) Complete() bool {
	return s.Color != nil && s.Size != nil
}

// Resolve returns the variant whose color and size equal the selection.
// Duplicate pairs in the catalog resolve to the first one listed.
func Resolve(variants []models.Variant, sel Selection) (*models.Variant, bool) {
	if !sel.Complete() {
		return nil, false
	}
	for i := range variants {
		if variants[i].Color == *sel.Color && variants[i].Size == *sel.Size {
			return &variants[i], true
		}
	}
	return nil, false
}

// Unavailable reports a complete selection that resolves to nothing.
func Unavailable(variants []models.Variant, sel Selection) bool {
	if !sel.Complete() {
		return false
	}
	_, ok := Resolve(variants, sel)
	return !ok
}

// ColorOptions returns the distinct selectable colors in first-seen order.
func ColorOptions(variants []models.Variant) []string {
	seen := make(map[string]struct{}, len(variants))
	colors := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.Color == "" || v.Color == nanColor {
			continue
		}
		if _, ok := seen[v.Color]; ok {
			continue
		}
		seen[v.Color] = struct{}{}
		colors = append(colors, v.Color)
	}
	return colors
}

// SizeOptions returns the distinct sizes in first-seen order.
func SizeOptions(variants []models.Variant) []string {
	seen := make(map[string]struct{}, len(variants))
	sizes := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v.Size]; ok {
			continue
		}
		seen[v.Size] = struct{}{}
		sizes = append(sizes, v.Size)
	}
	return sizes
}
