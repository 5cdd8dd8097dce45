package seo

import (
	"encoding/json"
	"html/template"

	"finitefield.org/storefront-web/internal/format"
)

// JSON marshals v for embedding in a <script type="application/ld+json"> block.
// It returns an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ProductInput carries the fields rendered into a Product schema.
type ProductInput struct {
	Name        string
	Description string
	URL         string
	ImageURL    string
	SKU         string
	Category    string
	Price       float64
	Currency    string
}

// Product returns a product schema payload with a single offer.
func Product(in ProductInput) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Product",
		"name":     in.Name,
	}
	if in.Description != "" {
		m["description"] = in.Description
	}
	if in.URL != "" {
		m["url"] = in.URL
	}
	if in.ImageURL != "" {
		m["image"] = in.ImageURL
	}
	if in.SKU != "" {
		m["sku"] = in.SKU
	}
	if in.Category != "" {
		m["category"] = in.Category
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	m["offers"] = map[string]any{
		"@type":         "Offer",
		"price":         format.Price(in.Price),
		"priceCurrency": currency,
		"availability":  "https://schema.org/InStock",
	}
	return m
}
