package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T { return &v }

func product(slug, catName, catSlug string) Product {
	p := Product{Name: slug, Slug: slug}
	if catSlug != "" || catName != "" {
		p.Category = &CategoryRef{Name: catName, Slug: catSlug}
	}
	return p
}

func TestBuildSelectsSingleCategory(t *testing.T) {
	products := []Product{
		product("a", "Mac", "mac"),
		product("b", "iPhone", "iphone"),
	}
	categories := []Category{
		{ID: 1, Name: "Mac", Slug: "mac"},
		{ID: 2, Name: "iPhone", Slug: "iphone"},
	}

	got := Build(products, categories, "iphone")

	require.Len(t, got.Groups, 1)
	assert.Equal(t, "iPhone", got.Groups[0].Name)
	require.Len(t, got.Groups[0].Products, 1)
	assert.Equal(t, "b", got.Groups[0].Products[0].Slug)
	require.NotNil(t, got.SelectedName)
	assert.Equal(t, "iPhone", *got.SelectedName)
}

func TestBuildWithoutSlugKeepsEverythingInFirstSeenOrder(t *testing.T) {
	products := []Product{
		product("mbp", "Mac", "mac"),
		product("i16", "iPhone", "iphone"),
		{Name: "cable", Slug: "cable"},
		product("imac", "Mac", "mac"),
	}

	got := Build(products, nil, "")

	want := []Group{
		{Name: "Mac", Products: []Product{products[0], products[3]}},
		{Name: "iPhone", Products: []Product{products[1]}},
		{Name: UncategorizedGroup, Products: []Product{products[2]}},
	}
	if diff := cmp.Diff(want, got.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.SelectedName)
	assert.Equal(t, 4, got.ProductCount())
}

func TestBuildUnknownSlugHasNoNameAndNoGroups(t *testing.T) {
	got := Build([]Product{product("a", "Mac", "mac")}, []Category{{Name: "Mac", Slug: "mac"}}, "vision")
	assert.True(t, got.Empty())
	assert.Nil(t, got.SelectedName)
}

func TestGroupNameFallsBackToUncategorized(t *testing.T) {
	assert.Equal(t, UncategorizedGroup, Product{}.GroupName())
	assert.Equal(t, UncategorizedGroup, Product{Category: &CategoryRef{Slug: "x"}}.GroupName())
	assert.Equal(t, "Mac", product("a", "Mac", "mac").GroupName())
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	in := []Product{product("a", "Mac", "mac")}
	out := Filter(in, "")
	out[0].Name = "changed"
	assert.Equal(t, "a", in[0].Name)
}

// Grouping must be a partition of the filtered subset: nothing dropped, nothing duplicated.
func TestGroupingPartitionsFilteredProducts(t *testing.T) {
	cats := []CategoryRef{{Name: "Mac", Slug: "mac"}, {Name: "iPad", Slug: "ipad"}, {Name: "iPhone", Slug: "iphone"}}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := rng.Intn(20)
		products := make([]Product, n)
		for i := range products {
			products[i] = Product{Slug: fmt.Sprintf("p%d-%d", round, i)}
			if k := rng.Intn(len(cats) + 1); k < len(cats) {
				c := cats[k]
				products[i].Category = &c
			}
		}
		for _, slug := range []string{"", "mac", "ipad", "iphone", "watch"} {
			expected := map[string]bool{}
			for _, p := range products {
				if slug == "" || p.CategorySlug() == slug {
					expected[p.Slug] = true
				}
			}
			seen := map[string]int{}
			for _, g := range Build(products, nil, slug).Groups {
				require.NotEmpty(t, g.Products)
				for _, p := range g.Products {
					seen[p.Slug]++
					assert.Equal(t, g.Name, p.GroupName())
				}
			}
			require.Len(t, seen, len(expected), "round %d slug %q", round, slug)
			for s, count := range seen {
				assert.True(t, expected[s], "unexpected product %s", s)
				assert.Equal(t, 1, count, "product %s duplicated", s)
			}
		}
	}
}

func TestProductDefaults(t *testing.T) {
	var p Product
	assert.Equal(t, 4999.0, p.PriceOrDefault())
	assert.Equal(t, 4999.0, p.InstallmentBase())
	assert.Equal(t, "Good size ", p.DisplaySizeOrDefault())
	assert.Equal(t, "1000", p.BrightnessOrDefault())
	assert.Equal(t, "1600", p.PeakBrightnessOrDefault())
	assert.Equal(t, "1,000,000:1", p.ContrastRatioOrDefault())

	p = Product{Price: ptr(1299.0), DisplaySize: "32-inch", Brightness: "600", PeakBrightness: "1000", ContrastRatio: "2,000,000:1"}
	assert.Equal(t, 1299.0, p.PriceOrDefault())
	assert.Equal(t, 1299.0, p.InstallmentBase())
	assert.Equal(t, "32-inch", p.DisplaySizeOrDefault())
	assert.Equal(t, "600", p.BrightnessOrDefault())
	assert.Equal(t, "1000", p.PeakBrightnessOrDefault())
	assert.Equal(t, "2,000,000:1", p.ContrastRatioOrDefault())
}

func TestImagePreferredURL(t *testing.T) {
	var nilImage *Image
	assert.Empty(t, nilImage.PreferredURL())

	img := &Image{URL: "/orig.png", Formats: map[string]ImageFormat{
		FormatThumbnail: {URL: "/thumb.png"},
		FormatSmall:     {URL: "/small.png"},
	}}
	assert.Equal(t, "/small.png", img.PreferredURL())

	delete(img.Formats, FormatSmall)
	assert.Equal(t, "/thumb.png", img.PreferredURL())

	img.Formats = nil
	assert.Equal(t, "/orig.png", img.PreferredURL())
}

type fakeSource struct {
	products    []Product
	categories  []Category
	productErr  error
	categoryErr error
	bySlug      map[string][]Product
	slugErr     error
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]Product, error) {
	if f.productErr != nil {
		return nil, f.productErr
	}
	return f.products, nil
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]Category, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.categories, nil
}

func (f *fakeSource) FindProductsBySlug(ctx context.Context, slug string) ([]Product, error) {
	if f.slugErr != nil {
		return nil, f.slugErr
	}
	return f.bySlug[slug], nil
}

func TestLoadCatalog(t *testing.T) {
	src := &fakeSource{
		products:   []Product{product("a", "Mac", "mac"), product("b", "iPhone", "iphone")},
		categories: []Category{{Name: "Mac", Slug: "mac"}, {Name: "iPhone", Slug: "iphone"}},
	}
	got, err := NewLoader(src).LoadCatalog(context.Background(), " mac ")
	require.NoError(t, err)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "mac", got.SelectedSlug)
	assert.Len(t, got.Categories, 2)
}

func TestLoadCatalogFailsWhenEitherReadFails(t *testing.T) {
	boom := errors.New("connection refused")
	for name, src := range map[string]*fakeSource{
		"products":   {productErr: boom},
		"categories": {categoryErr: boom},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(src).LoadCatalog(context.Background(), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLoadFailed)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestLoadProduct(t *testing.T) {
	src := &fakeSource{bySlug: map[string][]Product{
		"studio-display": {
			{Slug: "studio-display", Image: &Image{URL: "http://cms/full.png", Formats: map[string]ImageFormat{FormatSmall: {URL: "http://cms/small.png"}}}},
			{Slug: "studio-display", Name: "duplicate"},
		},
	}}
	got, err := NewLoader(src).LoadProduct(context.Background(), "studio-display")
	require.NoError(t, err)
	assert.Empty(t, got.Product.Name, "first record wins")
	assert.Equal(t, []string{
		"http://cms/small.png", "http://cms/small.png", "http://cms/small.png",
		"http://cms/small.png", "http://cms/small.png",
	}, got.Gallery)
}

func TestLoadProductNotFound(t *testing.T) {
	_, err := NewLoader(&fakeSource{}).LoadProduct(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.NotErrorIs(t, err, ErrLoadFailed)

	_, err = NewLoader(&fakeSource{}).LoadProduct(context.Background(), "  ")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestLoadProductFailure(t *testing.T) {
	_, err := NewLoader(&fakeSource{slugErr: errors.New("timeout")}).LoadProduct(context.Background(), "x")
	require.ErrorIs(t, err, ErrLoadFailed)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestGallerySize(t *testing.T) {
	g := Gallery("u")
	require.Len(t, g, GallerySize)
	for _, u := range g {
		assert.Equal(t, "u", u)
	}
}

func TestZeroPriceKeepsDefaultInstallmentBase(t *testing.T) {
	p := Product{Price: ptr(0.0)}
	assert.Equal(t, 0.0, p.PriceOrDefault())
	assert.Equal(t, DefaultPrice, p.InstallmentBase())
}
