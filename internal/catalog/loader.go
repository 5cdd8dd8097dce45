package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// GallerySize is the number of slides in the product image carousel. The content API
// exposes one image per product, so the gallery repeats it; this is a display
// placeholder, not a multi-image contract.
const GallerySize = 5

var (
	// ErrLoadFailed marks any transport, status or decoding failure while reading the catalog.
	ErrLoadFailed = errors.New("catalog: failed to load")
	// ErrProductNotFound is returned when a slug lookup yields no records.
	ErrProductNotFound = errors.New("catalog: product not found")
)

// Source reads catalog records from the content API.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	FindProductsBySlug(ctx context.Context, slug string) ([]Product, error)
}

// Loader runs the catalog and product detail flows against a Source. It keeps no state
// between calls.
type Loader struct {
	source Source
}

// NewLoader constructs a Loader.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// LoadCatalog reads products and categories concurrently and builds the grouped catalog
// for the optional category slug. Either read failing fails the whole load.
func (l *Loader) LoadCatalog(ctx context.Context, categorySlug string) (Catalog, error) {
	var (
		products   []Product
		categories []Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = l.source.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("%w: products: %w", ErrLoadFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = l.source.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("%w: categories: %w", ErrLoadFailed, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return Build(products, categories, strings.TrimSpace(categorySlug)), nil
}

// LoadCategories reads only the category list, for the picker fragment.
func (l *Loader) LoadCategories(ctx context.Context) ([]Category, error) {
	categories, err := l.source.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: categories: %w", ErrLoadFailed, err)
	}
	return categories, nil
}

// ProductDetail is the result of the detail flow.
type ProductDetail struct {
	Product Product
	Gallery []string
}

// LoadProduct resolves a product by slug. The first record wins when the API returns
// several.
func (l *Loader) LoadProduct(ctx context.Context, slug string) (ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductDetail{}, ErrProductNotFound
	}
	products, err := l.source.FindProductsBySlug(ctx, slug)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("%w: product %q: %w", ErrLoadFailed, slug, err)
	}
	if len(products) == 0 {
		return ProductDetail{}, ErrProductNotFound
	}
	p := products[0]
	return ProductDetail{
		Product: p,
		Gallery: Gallery(p.Image.PreferredURL()),
	}, nil
}

// Gallery returns GallerySize copies of imageURL.
func Gallery(imageURL string) []string {
	out := make([]string, GallerySize)
	for i := range out {
		out[i] = imageURL
	}
	return out
}
