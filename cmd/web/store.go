package main

import (
	"net/http"
	"strconv"
	"strings"

	handlersPkg "finitefield.org/storefront-web/internal/handlers"
	mw "finitefield.org/storefront-web/internal/middleware"
)

// queryInt reads a non-negative integer parameter, defaulting to 0.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// StoreHandler renders the catalog listing, optionally filtered by ?category=.
func (a *app) StoreHandler(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("category"))
	c, err := a.loader.LoadCatalog(r.Context(), slug)
	if err != nil {
		a.renderLoadError(w, r, err, "error.load_products")
		return
	}

	lang := mw.Lang(r)
	view := handlersPkg.BuildStoreView(c, queryInt(r, "cpos"))
	title := a.bundle.T(lang, "store.heading")
	if view.SelectedName != "" {
		title = view.SelectedName + " " + a.bundle.T(lang, "store.heading_suffix")
	}
	vm := a.basePage(r, title, a.bundle.T(lang, "store.categories"), "", view.SelectedName)
	vm.Store = view
	a.renderPage(w, r, "store", http.StatusOK, vm)
}

// StorePickerFrag scrolls the category picker and renders it alone.
func (a *app) StorePickerFrag(w http.ResponseWriter, r *http.Request) {
	categories, err := a.loader.LoadCategories(r.Context())
	if err != nil {
		a.renderLoadErrorFrag(w, r, err, "error.load_products")
		return
	}
	q := r.URL.Query()
	slug := strings.TrimSpace(q.Get("category"))
	picker := handlersPkg.BuildPicker(categories, slug, queryInt(r, "cpos"), q.Get("action"))
	mw.PushURL(w, picker.PageURL)
	a.renderTemplate(w, r, "frag_picker", http.StatusOK, handlersPkg.PageData{
		Lang:  mw.Lang(r),
		Store: &handlersPkg.StoreView{Picker: picker, SelectedSlug: slug},
	})
}

func storeFallback(r *http.Request) string {
	return handlersPkg.StoreHref(strings.TrimSpace(r.URL.Query().Get("category")), queryInt(r, "cpos"))
}
