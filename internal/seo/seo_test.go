package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSchema(t *testing.T) {
	m := Product(ProductInput{Name: "iPhone", URL: "https://shop.example.com/category/iphone", Price: 4999})
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(m)), &decoded))

	assert.Equal(t, "Product", decoded["@type"])
	offer := decoded["offers"].(map[string]any)
	assert.Equal(t, "4999", offer["price"])
	assert.Equal(t, "USD", offer["priceCurrency"])
	_, hasImage := decoded["image"]
	assert.False(t, hasImage)
}

func TestBreadcrumbListPositions(t *testing.T) {
	m := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "/"}, {Name: "Store", Item: "/store"}})
	items := m["itemListElement"].([]map[string]any)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1]["position"])
}

func TestPageMeta(t *testing.T) {
	meta := PageMeta("Store", "iPhone", "desc", "/category/iphone", "")
	assert.Equal(t, "iPhone | Store", meta.Title)
	assert.Equal(t, "summary", meta.Twitter.Card)

	meta = PageMeta("Store", "", "", "/", "https://img.example.com/a.png")
	assert.Equal(t, "Store", meta.Title)
	assert.Equal(t, "summary_large_image", meta.Twitter.Card)
}
