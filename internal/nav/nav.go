package nav

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed links.yaml
var linksYAML []byte

// Item represents a top-level navigation item.
type Item struct {
	Path     string `yaml:"path"`     // e.g. "/store"
	Category string `yaml:"category"` // optional category slug, e.g. "iphone"
	LabelKey string `yaml:"label_key"`
	Label    string `yaml:"label"`
}

// Href returns the link target, with the category query when set.
func (it Item) Href() string {
	if it.Category == "" {
		return it.Path
	}
	return it.Path + "?" + url.Values{"category": {it.Category}}.Encode()
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = mustParse(linksYAML)

// Parse decodes a link definition document.
func Parse(data []byte) ([]Item, error) {
	var doc struct {
		Main []Item `yaml:"main"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("nav: decode links: %w", err)
	}
	for i, it := range doc.Main {
		if strings.TrimSpace(it.Path) == "" || strings.TrimSpace(it.Label) == "" {
			return nil, fmt.Errorf("nav: link %d missing path or label", i)
		}
	}
	return doc.Main, nil
}

func mustParse(data []byte) []Item {
	items, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return items
}

// Build renders navigation items with active state given the current path and
// selected category.
func Build(currentPath, categorySlug string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Href(),
			LabelKey: it.LabelKey,
			Label:    it.Label,
			Active:   isActive(it, currentPath, categorySlug),
		})
	}
	return items
}

func isActive(it Item, currentPath, categorySlug string) bool {
	if currentPath != it.Path && !strings.HasPrefix(currentPath, it.Path+"/") {
		return false
	}
	return it.Category == categorySlug
}

// Breadcrumbs builds breadcrumb entries for the current path. label names the
// final entry (a category or product); it may be empty.
func Breadcrumbs(currentPath, label string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	clean := path.Clean(currentPath)
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Label: "Home", Active: clean == "/"}}
	if clean == "/" {
		return crumbs
	}

	label = strings.TrimSpace(label)
	top := "/" + strings.SplitN(strings.TrimPrefix(clean, "/"), "/", 2)[0]
	if top == "/store" || top == "/category" {
		crumbs = append(crumbs, Crumb{Href: "/store", LabelKey: "nav.store", Label: "Store", Active: label == ""})
	}
	if label != "" {
		crumbs = append(crumbs, Crumb{Href: currentPath, Label: label, Active: true})
	}
	return crumbs
}

// Bar is the navbar's open/closed state, carried in the query string between
// fragment requests.
type Bar struct {
	MenuOpen   bool
	SearchOpen bool
	extra      url.Values
}

// BarFromQuery reads menu and search flags from q. Other keys are kept and
// reproduced by the toggle links.
func BarFromQuery(q url.Values) Bar {
	b := Bar{
		MenuOpen:   flag(q.Get("menu")),
		SearchOpen: flag(q.Get("search")),
		extra:      url.Values{},
	}
	for k, vs := range q {
		switch k {
		case "menu", "search", "toggle":
			continue
		}
		b.extra[k] = append([]string(nil), vs...)
	}
	return b
}

func flag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Apply performs the named toggle ("menu" or "search"); unknown names are ignored.
func (b Bar) Apply(toggle string) Bar {
	switch toggle {
	case "menu":
		return b.ToggleMenu()
	case "search":
		return b.ToggleSearch()
	case "close":
		return b.CloseMenu()
	}
	return b
}

// ToggleMenu flips the mobile menu.
func (b Bar) ToggleMenu() Bar {
	b.MenuOpen = !b.MenuOpen
	return b
}

// ToggleSearch flips the search field.
func (b Bar) ToggleSearch() Bar {
	b.SearchOpen = !b.SearchOpen
	return b
}

// CloseMenu closes the mobile menu, as following a menu link does.
func (b Bar) CloseMenu() Bar {
	b.MenuOpen = false
	return b
}

// Query encodes the state plus preserved keys.
func (b Bar) Query() url.Values {
	q := url.Values{}
	for k, vs := range b.extra {
		q[k] = append([]string(nil), vs...)
	}
	if b.MenuOpen {
		q.Set("menu", "1")
	}
	if b.SearchOpen {
		q.Set("search", "1")
	}
	return q
}

// Href links endpoint with the current state and the given toggle.
func (b Bar) Href(endpoint, toggle string) string {
	q := b.Query()
	if toggle != "" {
		q.Set("toggle", toggle)
	}
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}
