package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/content"
	handlersPkg "finitefield.org/storefront-web/internal/handlers"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/nav"
	"finitefield.org/storefront-web/internal/platform/requestctx"
	"finitefield.org/storefront-web/internal/seo"
)

// basePage fills the layout fields shared by every page.
func (a *app) basePage(r *http.Request, title, description, image, label string) handlersPkg.PageData {
	lang := mw.Lang(r)
	category := r.URL.Query().Get("category")
	crumbs := nav.Breadcrumbs(r.URL.Path, label)

	vm := handlersPkg.PageData{
		Title:       title,
		SiteName:    a.cfg.Site.Name,
		Lang:        lang,
		SEO:         seo.PageMeta(a.cfg.Site.Name, title, description, a.absoluteURL(r, r.URL.RequestURI()), image),
		Analytics:   handlersPkg.AnalyticsFromConfig(a.cfg.Site),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path, category),
		Bar:         handlersPkg.BuildBar(nav.BarFromQuery(navQuery(r.URL.Path, category))),
		Breadcrumbs: crumbs,
	}
	vm.JSONLD = append(vm.JSONLD,
		seo.JSON(seo.Organization(a.cfg.Site.Name, a.absoluteURL(r, "/"), "")),
		seo.JSON(seo.BreadcrumbList(a.breadcrumbItems(r, lang, crumbs))),
	)
	return vm
}

func (a *app) breadcrumbItems(r *http.Request, lang string, crumbs []nav.Crumb) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = a.bundle.T(lang, c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: a.absoluteURL(r, c.Href)})
	}
	return items
}

// navQuery is the state the navbar fragment needs to rebuild active links.
func navQuery(path, category string) url.Values {
	q := url.Values{"path": {path}}
	if category != "" {
		q.Set("category", category)
	}
	return q
}

// absoluteURL resolves ref against the configured public origin, or the request host.
func (a *app) absoluteURL(r *http.Request, ref string) string {
	base := a.cfg.Site.BaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + ref
}

// HomeHandler renders the landing page.
func (a *app) HomeHandler(w http.ResponseWriter, r *http.Request) {
	home, err := content.HomePage()
	if err != nil {
		requestctx.Logger(r.Context()).Error("home content", zap.Error(err))
		http.Error(w, "content unavailable", http.StatusInternalServerError)
		return
	}
	vm := a.basePage(r, a.cfg.Site.Name, "", "", "")
	vm.Home = handlersPkg.BuildHomeData(home)
	a.renderPage(w, r, "home", http.StatusOK, vm)
}

// NotFoundHandler renders the shared error page for unknown paths.
func (a *app) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	msg := a.bundle.T(lang, "error.page_not_found")
	vm := a.basePage(r, msg, "", "", "")
	vm.Error = &handlersPkg.ErrorView{Status: http.StatusNotFound, Message: msg, BackHref: handlersPkg.StorePath}
	a.renderPage(w, r, "error", http.StatusNotFound, vm)
}

// loadErrorView maps a loader error to the status and message shown to the user.
// messageKey names the copy used for load failures.
func (a *app) loadErrorView(r *http.Request, err error, messageKey string) *handlersPkg.ErrorView {
	lang := mw.Lang(r)
	logger := requestctx.Logger(r.Context())
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		logger.Info("product not found", zap.String("path", r.URL.Path))
		return &handlersPkg.ErrorView{
			Status:   http.StatusNotFound,
			Message:  a.bundle.T(lang, "error.not_found"),
			BackHref: handlersPkg.StorePath,
		}
	case errors.Is(err, context.Canceled):
		logger.Debug("request cancelled during load", zap.Error(err))
	default:
		logger.Error("catalog load failed", zap.Error(err))
	}
	return &handlersPkg.ErrorView{
		Status:    http.StatusBadGateway,
		Message:   a.bundle.T(lang, messageKey),
		RetryHref: r.URL.RequestURI(),
	}
}

// renderLoadError renders the full error page for a failed load.
func (a *app) renderLoadError(w http.ResponseWriter, r *http.Request, err error, messageKey string) {
	ev := a.loadErrorView(r, err, messageKey)
	vm := a.basePage(r, ev.Message, "", "", "")
	vm.Error = ev
	a.renderPage(w, r, "error", ev.Status, vm)
}

// renderLoadErrorFrag renders the error fragment in place of a failed swap.
func (a *app) renderLoadErrorFrag(w http.ResponseWriter, r *http.Request, err error, messageKey string) {
	ev := a.loadErrorView(r, err, messageKey)
	ev.RetryHref = ""
	a.renderTemplate(w, r, "frag_error", ev.Status, handlersPkg.PageData{Lang: mw.Lang(r), Error: ev})
}
