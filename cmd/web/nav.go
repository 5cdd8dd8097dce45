package main

import (
	"net/http"
	"strings"

	handlersPkg "finitefield.org/storefront-web/internal/handlers"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/nav"
)

// NavFrag applies ?toggle= to the navbar state and renders the navbar.
func (a *app) NavFrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bar := nav.BarFromQuery(q).Apply(q.Get("toggle"))
	page := q.Get("path")
	if page == "" {
		page = "/"
	}
	a.renderTemplate(w, r, "frag_nav", http.StatusOK, handlersPkg.PageData{
		Lang:     mw.Lang(r),
		SiteName: a.cfg.Site.Name,
		Nav:      nav.Build(page, q.Get("category")),
		Bar:      handlersPkg.BuildBar(bar),
	})
}

// navFallback sends plain requests back to the page the navbar was rendered on.
// Only this site's own page shapes are accepted; anything else goes home.
func navFallback(r *http.Request) string {
	p := r.URL.Query().Get("path")
	switch {
	case p == handlersPkg.StorePath:
		return p
	case strings.HasPrefix(p, handlersPkg.ProductPathRoot):
		slug := strings.TrimPrefix(p, handlersPkg.ProductPathRoot)
		if slug != "" && !strings.ContainsAny(slug, "/\\") {
			return handlersPkg.ProductHref(slug)
		}
	}
	return "/"
}
