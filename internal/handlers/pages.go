package handlers

import (
	"html/template"

	"finitefield.org/storefront-web/internal/nav"
	"finitefield.org/storefront-web/internal/seo"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	SiteName  string
	Lang      string
	SEO       seo.Meta
	JSONLD    []template.JS
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Bar         BarView
	Breadcrumbs []nav.Crumb

	// Optional per-page view model payloads
	Home    *HomeData
	Store   *StoreView
	Product *ProductView
	Error   *ErrorView
}

// BarView is the navbar state plus the links that toggle it.
type BarView struct {
	MenuOpen         bool
	SearchOpen       bool
	MenuToggleHref   string
	SearchToggleHref string
}

// NavEndpoint serves the navbar fragment.
const NavEndpoint = "/nav"

// BuildBar renders the toggle links for b.
func BuildBar(b nav.Bar) BarView {
	return BarView{
		MenuOpen:         b.MenuOpen,
		SearchOpen:       b.SearchOpen,
		MenuToggleHref:   b.Href(NavEndpoint, "menu"),
		SearchToggleHref: b.Href(NavEndpoint, "search"),
	}
}

// ErrorView describes a failed page load.
type ErrorView struct {
	Status    int
	Message   string
	RetryHref string
	BackHref  string
}
