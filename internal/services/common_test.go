package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Mobile Phones":          "mobile-phones",
		"  Men's  Fashion & Co ": "men-s-fashion-co",
		"Café--Latte!!":          "caf-latte",
		"2024 Deals":             "2024-deals",
		"---":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestGenerateSKU(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	sku := GenerateSKU("Samsung Galaxy S23 Ultra", now)
	assert.Regexp(t, `^SAM-GAL-S23-[0-9A-Z]+$`, sku)

	assert.Regexp(t, `^PRD-[0-9A-Z]+$`, GenerateSKU("!!!", now))
	assert.NotEqual(t, sku, GenerateSKU("Samsung Galaxy S23 Ultra", now.Add(time.Millisecond)))
}

func TestOptional(t *testing.T) {
	blank := "   "
	value := "  Dhaka "

	assert.Nil(t, optional(nil))
	assert.Nil(t, optional(&blank))
	assert.Equal(t, "Dhaka", *optional(&value))
}
