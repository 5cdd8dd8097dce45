package handlers

import (
	"html/template"
	"net/url"
	"strconv"

	"finitefield.org/storefront-web/internal/carousel"
	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/format"
)

// SlideView is one gallery slide or its matching dot.
type SlideView struct {
	Index    int
	Number   int
	URL      string
	Active   bool
	Href     string
	Fragment string
}

// GalleryView is the product image carousel at its selected slide.
type GalleryView struct {
	Slides       []SlideView
	Index        int
	Count        int
	Alt          string
	CanPrev      bool
	CanNext      bool
	PrevHref     string
	NextHref     string
	PrevFragment string
	NextFragment string
	// PageURL is the detail URL reflecting the selected slide.
	PageURL string
}

// SpecView is a labelled display specification.
type SpecView struct {
	LabelKey string
	Value    string
	Unit     string
}

// ProductView is the view model for the product detail page.
type ProductView struct {
	Name            string
	Slug            string
	CategoryName    string
	CategoryHref    string
	Price           string
	Monthly         string
	DescriptionHTML template.HTML
	Specs           []SpecView
	Gallery         GalleryView
}

// ProductPageHref links to the detail page of slug at slide.
func ProductPageHref(slug string, slide int) string {
	href := ProductHref(slug)
	if slide > 0 {
		href += "?" + url.Values{"slide": {strconv.Itoa(slide)}}.Encode()
	}
	return href
}

func galleryFragmentHref(slug string, slide int, action string, to int) string {
	q := url.Values{}
	q.Set("slide", strconv.Itoa(slide))
	q.Set("action", action)
	if action == "goto" {
		q.Set("to", strconv.Itoa(to))
	}
	return ProductHref(slug) + "/gallery?" + q.Encode()
}

// GalleryAction is a navigation request against the gallery.
type GalleryAction struct {
	Name string // prev | next | goto
	To   int
}

// BuildGallery mounts a controller over images at slide 0, restores slide, applies
// action and renders the result.
func BuildGallery(slug, alt string, images []string, slide int, action GalleryAction) GalleryView {
	ctrl := carousel.NewController(carousel.NewTrack(len(images), 1, 0))
	defer ctrl.Close()

	ctrl.GoTo(slide)
	switch action.Name {
	case "prev":
		ctrl.Previous()
	case "next":
		ctrl.Next()
	case "goto":
		ctrl.GoTo(action.To)
	}

	idx := ctrl.Index()
	view := GalleryView{
		Index:        idx,
		Count:        len(images),
		Alt:          alt,
		CanPrev:      ctrl.CanGoPrevious(),
		CanNext:      ctrl.CanGoNext(),
		PrevHref:     ProductPageHref(slug, max(idx-1, 0)),
		NextHref:     ProductPageHref(slug, idx+1),
		PrevFragment: galleryFragmentHref(slug, idx, "prev", 0),
		NextFragment: galleryFragmentHref(slug, idx, "next", 0),
		PageURL:      ProductPageHref(slug, idx),
	}
	for i, src := range images {
		view.Slides = append(view.Slides, SlideView{
			Index:    i,
			Number:   i + 1,
			URL:      src,
			Active:   i == idx,
			Href:     ProductPageHref(slug, i),
			Fragment: galleryFragmentHref(slug, idx, "goto", i),
		})
	}
	return view
}

// BuildProductView renders a loaded product with the gallery at slide.
func BuildProductView(d catalog.ProductDetail, slide int, action GalleryAction) *ProductView {
	p := d.Product
	price := p.PriceOrDefault()
	view := &ProductView{
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           format.Price(price),
		Monthly:         format.Monthly(p.InstallmentBase(), catalog.InstallmentMonths),
		DescriptionHTML: format.Markdown(p.Description),
		Specs: []SpecView{
			{LabelKey: "product.display_size", Value: p.DisplaySizeOrDefault()},
			{LabelKey: "product.brightness", Value: p.BrightnessOrDefault(), Unit: "product.nits"},
			{LabelKey: "product.peak_brightness", Value: p.PeakBrightnessOrDefault(), Unit: "product.nits"},
			{LabelKey: "product.contrast", Value: p.ContrastRatioOrDefault()},
		},
	}
	if p.Category != nil {
		view.CategoryName = p.Category.Name
		view.CategoryHref = StoreHref(p.Category.Slug, 0)
	}
	alt := p.Name
	if p.Image != nil && p.Image.Alt != "" {
		alt = p.Image.Alt
	}
	view.Gallery = BuildGallery(p.Slug, alt, d.Gallery, slide, action)
	return view
}
