package catalog

// Group is one rendered row: a category display name and its products in input order.
type Group struct {
	Name     string
	Products []Product
}

// Filter keeps the products whose category slug equals slug. An empty slug keeps everything.
// The input slice is never modified.
func Filter(products []Product, slug string) []Product {
	if slug == "" {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.CategorySlug() == slug {
			out = append(out, p)
		}
	}
	return out
}

// GroupByCategory partitions products by category display name. Groups appear in the
// order their first product appears; products keep their input order within a group.
func GroupByCategory(products []Product) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, p := range products {
		name := p.GroupName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// FindCategory returns the category with the given slug.
func FindCategory(categories []Category, slug string) (Category, bool) {
	if slug == "" {
		return Category{}, false
	}
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// Catalog is the result of the catalog flow for one render.
type Catalog struct {
	Groups       []Group
	Categories   []Category
	SelectedSlug string
	// SelectedName is nil when no category is selected or the slug is unknown.
	SelectedName *string
}

// Build filters products by slug, groups them and resolves the selected category name.
func Build(products []Product, categories []Category, slug string) Catalog {
	c := Catalog{
		Groups:       GroupByCategory(Filter(products, slug)),
		Categories:   categories,
		SelectedSlug: slug,
	}
	if cat, ok := FindCategory(categories, slug); ok {
		name := cat.Name
		c.SelectedName = &name
	}
	return c
}

// Empty reports whether no product survived filtering.
func (c Catalog) Empty() bool {
	return len(c.Groups) == 0
}

// ProductCount returns the number of products across all groups.
func (c Catalog) ProductCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Products)
	}
	return n
}
