package handlers

import (
	"net/url"
	"strconv"

	"finitefield.org/storefront-web/internal/carousel"
	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/format"
)

// PickerPerView is the number of category cards shown at once.
const PickerPerView = 4

// Store endpoints.
const (
	StorePath       = "/store"
	PickerEndpoint  = "/store/categories"
	ProductPathRoot = "/category/"
)

// ProductCard is a product tile in the listing.
type ProductCard struct {
	Name     string
	Slug     string
	Href     string
	ImageURL string
	ImageAlt string
	Price    string
	Monthly  string
}

// GroupView is a titled row of products.
type GroupView struct {
	Name     string
	Products []ProductCard
}

// CategoryCard is one entry in the category picker.
type CategoryCard struct {
	Name     string
	Slug     string
	Href     string
	ImageURL string
	Selected bool
}

// PickerView is the visible window of the category picker and its scroll affordances.
type PickerView struct {
	Categories []CategoryCard
	Pos        int
	Total      int
	CanPrev    bool
	CanNext    bool
	// Full page links, used without htmx.
	PrevHref string
	NextHref string
	// Fragment links.
	PrevFragment string
	NextFragment string
	// PageURL is the store URL reflecting this picker position.
	PageURL string
}

// StoreView is the view model for the store listing.
type StoreView struct {
	Groups       []GroupView
	Picker       PickerView
	SelectedSlug string
	SelectedName string
	Empty        bool
	Count        int
}

// ProductHref links to the detail page of slug.
func ProductHref(slug string) string {
	return ProductPathRoot + url.PathEscape(slug)
}

// StoreHref links to the listing filtered by category (empty for all) at picker position pos.
func StoreHref(category string, pos int) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if pos > 0 {
		q.Set("cpos", strconv.Itoa(pos))
	}
	if len(q) == 0 {
		return StorePath
	}
	return StorePath + "?" + q.Encode()
}

func pickerFragmentHref(category string, pos int, action string) string {
	q := url.Values{}
	q.Set("cpos", strconv.Itoa(pos))
	q.Set("action", action)
	if category != "" {
		q.Set("category", category)
	}
	return PickerEndpoint + "?" + q.Encode()
}

// BuildProductCard renders a listing tile with price defaults applied.
func BuildProductCard(p catalog.Product) ProductCard {
	price := p.PriceOrDefault()
	card := ProductCard{
		Name:    p.Name,
		Slug:    p.Slug,
		Href:    ProductHref(p.Slug),
		Price:   format.Price(price),
		Monthly: format.Monthly(p.InstallmentBase(), catalog.InstallmentMonths),
	}
	if p.Image != nil {
		card.ImageURL = p.Image.PreferredURL()
		card.ImageAlt = p.Image.Alt
	}
	if card.ImageAlt == "" {
		card.ImageAlt = p.Name
	}
	return card
}

// BuildPicker positions a category track at pos, applies action ("prev" or "next";
// anything else leaves it in place) and renders the visible window.
func BuildPicker(categories []catalog.Category, selected string, pos int, action string) PickerView {
	track := carousel.NewTrack(len(categories), PickerPerView, pos)
	state := carousel.NewScrollState(track)
	defer state.Close()

	switch action {
	case "prev":
		track.ScrollPrev()
	case "next":
		track.ScrollNext()
	}

	from, to := track.Visible()
	cur := track.SelectedSnap()
	view := PickerView{
		Pos:          cur,
		Total:        len(categories),
		CanPrev:      state.CanScrollPrev(),
		CanNext:      state.CanScrollNext(),
		PrevHref:     StoreHref(selected, max(cur-1, 0)),
		NextHref:     StoreHref(selected, cur+1),
		PrevFragment: pickerFragmentHref(selected, cur, "prev"),
		NextFragment: pickerFragmentHref(selected, cur, "next"),
		PageURL:      StoreHref(selected, cur),
	}
	for _, c := range categories[from:to] {
		card := CategoryCard{
			Name:     c.Name,
			Slug:     c.Slug,
			Href:     StoreHref(c.Slug, cur),
			Selected: c.Slug != "" && c.Slug == selected,
		}
		if c.Image != nil {
			card.ImageURL = c.Image.PreferredURL()
		}
		view.Categories = append(view.Categories, card)
	}
	return view
}

// BuildStoreView renders a loaded catalog with the picker at pos.
func BuildStoreView(c catalog.Catalog, pos int) *StoreView {
	view := &StoreView{
		SelectedSlug: c.SelectedSlug,
		Empty:        c.Empty(),
		Count:        c.ProductCount(),
		Picker:       BuildPicker(c.Categories, c.SelectedSlug, pos, ""),
	}
	if c.SelectedName != nil {
		view.SelectedName = *c.SelectedName
	}
	for _, g := range c.Groups {
		gv := GroupView{Name: g.Name}
		for _, p := range g.Products {
			gv.Products = append(gv.Products, BuildProductCard(p))
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}
