// Package catalog holds the storefront's read model: products and categories as
// delivered by the content API, plus the filtering, grouping and defaulting rules
// applied before rendering.
package catalog

import (
	"strings"
)

// Fallback values for optional product fields.
const (
	DefaultPrice          = 4999.0
	DefaultDisplaySize    = "Good size "
	DefaultBrightness     = "1000"
	DefaultPeakBrightness = "1600"
	DefaultContrastRatio  = "1,000,000:1"

	// UncategorizedGroup collects products without category data.
	UncategorizedGroup = "Uncategorized"

	// InstallmentMonths is the divisor used for the monthly price line.
	InstallmentMonths = 12
)

// Format names in lookup preference order.
const (
	FormatSmall     = "small"
	FormatThumbnail = "thumbnail"
)

// Image is an uploaded media asset with optional resolution variants.
type Image struct {
	URL     string
	Alt     string
	Formats map[string]ImageFormat
}

// ImageFormat is one named resolution variant of an Image.
type ImageFormat struct {
	URL    string
	Width  int
	Height int
}

// PreferredURL returns the URL of the small format, then the thumbnail, then the original.
func (img *Image) PreferredURL() string {
	if img == nil {
		return ""
	}
	for _, name := range []string{FormatSmall, FormatThumbnail} {
		if f, ok := img.Formats[name]; ok && strings.TrimSpace(f.URL) != "" {
			return f.URL
		}
	}
	return img.URL
}

// CategoryRef is the category relation embedded in a product record.
type CategoryRef struct {
	Name string
	Slug string
}

// Category is a browsable product grouping.
type Category struct {
	ID    int
	Name  string
	Slug  string
	Image *Image
}

// Product is a catalog entry. Optional fields are pointers or empty strings; use the
// accessor methods to read them with fallbacks applied.
type Product struct {
	ID             int
	Name           string
	Slug           string
	Price          *float64
	Image          *Image
	Category       *CategoryRef
	DisplaySize    string
	Brightness     string
	PeakBrightness string
	ContrastRatio  string
	Description    string
}

// PriceOrDefault returns the price, or DefaultPrice when the record has none.
func (p Product) PriceOrDefault() float64 {
	if p.Price == nil {
		return DefaultPrice
	}
	return *p.Price
}

// InstallmentBase is the amount spread over InstallmentMonths. Unlike PriceOrDefault,
// a zero price also falls back to DefaultPrice, so the monthly line never reads $0.00.
func (p Product) InstallmentBase() float64 {
	if p.Price == nil || *p.Price == 0 {
		return DefaultPrice
	}
	return *p.Price
}

func (p Product) DisplaySizeOrDefault() string {
	return orDefault(p.DisplaySize, DefaultDisplaySize)
}

func (p Product) BrightnessOrDefault() string {
	return orDefault(p.Brightness, DefaultBrightness)
}

func (p Product) PeakBrightnessOrDefault() string {
	return orDefault(p.PeakBrightness, DefaultPeakBrightness)
}

func (p Product) ContrastRatioOrDefault() string {
	return orDefault(p.ContrastRatio, DefaultContrastRatio)
}

// CategorySlug returns the related category slug or "".
func (p Product) CategorySlug() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}

// GroupName returns the category display name used for grouping.
func (p Product) GroupName() string {
	if p.Category == nil || strings.TrimSpace(p.Category.Name) == "" {
		return UncategorizedGroup
	}
	return p.Category.Name
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
