package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name    string
		base    models.Amount
		variant *models.Variant
		want    string
	}{
		{"base only", models.ParseAmount("19.99"), nil, "19.99"},
		{"with adjustment", models.ParseAmount("19.99"), &models.Variant{PriceAdjustment: models.ParseAmount("2")}, "21.99"},
		{"negative adjustment", models.ParseAmount("10"), &models.Variant{PriceAdjustment: models.ParseAmount("-2.50")}, "7.5"},
		{"garbage adjustment", models.ParseAmount("19.99"), &models.Variant{PriceAdjustment: models.ParseAmount("abc")}, "19.99"},
		{"missing base", models.Amount{}, &models.Variant{PriceAdjustment: models.NewAmount(decimal.NewFromInt(5))}, "5"},
		{"nothing numeric", models.ParseAmount("n/a"), nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayPrice(tt.base, tt.variant)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$21.99", FormatPrice(decimal.RequireFromString("21.99")))
	assert.Equal(t, "$5.00", FormatPrice(decimal.NewFromInt(5)))
}

func TestEffectiveImage(t *testing.T) {
	p := &models.Product{Image: "products/tee.png"}

	assert.Equal(t, "products/tee.png", EffectiveImage(p, nil))
	assert.Equal(t, "products/tee.png", EffectiveImage(p, &models.Variant{}))
	assert.Equal(t, "variants/red.png", EffectiveImage(p, &models.Variant{ImageURL: "variants/red.png"}))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "http://api.local/storage/products/tee.png", ImageURL("http://api.local/", "products/tee.png"))
	assert.Equal(t, "http://api.local/storage/a.png", ImageURL("http://api.local", "/a.png"))
	assert.Equal(t, "", ImageURL("http://api.local", ""))
}

func TestEvaluate(t *testing.T) {
	p := &models.Product{ID: 1, Price: models.ParseAmount("10"), Image: "p.png", Variants: tee()}

	ev := Evaluate(p, Selection{Color: Choose("red"), Size: Choose("M")})
	assert.Equal(t, int64(10), ev.Variant.ID)
	assert.False(t, ev.Unavailable)
	assert.Equal(t, "$12.00", FormatPrice(ev.Price))
	assert.Equal(t, "p.png", ev.Image)

	ev = Evaluate(p, Selection{Color: Choose("red"), Size: Choose("L")})
	assert.Nil(t, ev.Variant)
	assert.True(t, ev.Unavailable)
	assert.Equal(t, "$10.00", FormatPrice(ev.Price))
}
