package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	handlersPkg "finitefield.org/storefront-web/internal/handlers"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/seo"
)

func galleryAction(r *http.Request) handlersPkg.GalleryAction {
	q := r.URL.Query()
	action := handlersPkg.GalleryAction{Name: q.Get("action")}
	if action.Name == "goto" {
		to, err := strconv.Atoi(q.Get("to"))
		if err != nil {
			return handlersPkg.GalleryAction{}
		}
		action.To = to
	}
	return action
}

// ProductHandler renders the detail page for /category/{slug}.
func (a *app) ProductHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := a.loader.LoadProduct(r.Context(), slug)
	if err != nil {
		a.renderLoadError(w, r, err, "error.load_product")
		return
	}

	view := handlersPkg.BuildProductView(detail, queryInt(r, "slide"), handlersPkg.GalleryAction{})
	image := detail.Product.Image.PreferredURL()
	vm := a.basePage(r, view.Name, "", image, view.Name)
	vm.Product = view
	vm.JSONLD = append(vm.JSONLD, seo.JSON(seo.Product(seo.ProductInput{
		Name:     detail.Product.Name,
		URL:      a.absoluteURL(r, handlersPkg.ProductHref(detail.Product.Slug)),
		ImageURL: image,
		SKU:      detail.Product.Slug,
		Category: view.CategoryName,
		Price:    detail.Product.PriceOrDefault(),
	})))
	a.renderPage(w, r, "product", http.StatusOK, vm)
}

// ProductGalleryFrag moves the gallery and renders it alone.
func (a *app) ProductGalleryFrag(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := a.loader.LoadProduct(r.Context(), slug)
	if err != nil {
		a.renderLoadErrorFrag(w, r, err, "error.load_product")
		return
	}
	view := handlersPkg.BuildProductView(detail, queryInt(r, "slide"), galleryAction(r))
	mw.PushURL(w, view.Gallery.PageURL)
	a.renderTemplate(w, r, "frag_gallery", http.StatusOK, handlersPkg.PageData{
		Lang:    mw.Lang(r),
		Product: view,
	})
}

func productFallback(r *http.Request) string {
	return handlersPkg.ProductPageHref(chi.URLParam(r, "slug"), queryInt(r, "slide"))
}
