package nav

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainLinks(t *testing.T) {
	require.Len(t, Main, 7)
	assert.Equal(t, "/store", Main[0].Href())
	assert.Equal(t, "/store?category=iphone", Main[3].Href())
	assert.Equal(t, "AirPods", Main[5].Label)
}

func TestBuildActiveState(t *testing.T) {
	items := Build("/store", "iphone")
	var active []string
	for _, it := range items {
		if it.Active {
			active = append(active, it.Label)
		}
	}
	assert.Equal(t, []string{"iPhone"}, active)

	items = Build("/store", "")
	assert.True(t, items[0].Active)
	assert.False(t, items[1].Active)

	for _, it := range Build("/", "") {
		assert.False(t, it.Active, it.Label)
	}
}

func TestParseRejectsIncompleteLinks(t *testing.T) {
	_, err := Parse([]byte("main:\n  - label: Broken\n"))
	require.Error(t, err)

	_, err = Parse([]byte("main: [unterminated"))
	require.Error(t, err)
}

func TestBreadcrumbs(t *testing.T) {
	home := Breadcrumbs("/", "")
	require.Len(t, home, 1)
	assert.True(t, home[0].Active)

	store := Breadcrumbs("/store", "")
	require.Len(t, store, 2)
	assert.Equal(t, "/store", store[1].Href)
	assert.True(t, store[1].Active)

	product := Breadcrumbs("/category/iphone-16-pro", "iPhone 16 Pro")
	require.Len(t, product, 3)
	assert.False(t, product[1].Active)
	assert.Equal(t, Crumb{Href: "/category/iphone-16-pro", Label: "iPhone 16 Pro", Active: true}, product[2])
}

func TestBarToggles(t *testing.T) {
	b := BarFromQuery(url.Values{"path": {"/store"}, "category": {"mac"}})
	assert.False(t, b.MenuOpen)
	assert.False(t, b.SearchOpen)

	b = b.Apply("menu")
	assert.True(t, b.MenuOpen)
	b = b.Apply("search")
	assert.True(t, b.SearchOpen)
	b = b.Apply("menu")
	assert.False(t, b.MenuOpen)
	assert.True(t, b.SearchOpen)

	b = b.ToggleMenu().CloseMenu()
	assert.False(t, b.MenuOpen)
	assert.Equal(t, b, b.Apply("unknown"))
}

func TestBarHrefPreservesQuery(t *testing.T) {
	b := BarFromQuery(url.Values{"menu": {"1"}, "toggle": {"menu"}, "category": {"mac"}})
	assert.True(t, b.MenuOpen)

	href, err := url.Parse(b.Href("/nav", "search"))
	require.NoError(t, err)
	assert.Equal(t, "/nav", href.Path)
	q := href.Query()
	assert.Equal(t, "1", q.Get("menu"))
	assert.Equal(t, "search", q.Get("toggle"))
	assert.Equal(t, "mac", q.Get("category"))
	assert.Empty(t, q.Get("search"))

	assert.Equal(t, "/nav", Bar{}.Href("/nav", ""))
}
