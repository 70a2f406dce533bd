package catalog

import (
	"sort"
	"strings"
)

// Sort options for Browse, mirroring the storefront sort dropdown.
const (
	SortByName      = "name"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
	SortByRating    = "rating"
)

// Catalog is an immutable snapshot of the product list, loaded once per
// process. The slice order is the canonical catalog order that ranking
// tie-breaks are pinned to.
type Catalog struct {
	products []Product
	byID     map[string]int
}

func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Products returns all products in catalog order. Callers must not mutate
// the returned slice.
func (c *Catalog) Products() []Product {
	return c.products
}

func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Query narrows and orders the catalog for the browse view.
type Query struct {
	Category string // empty or "all" means every category
	Search   string // case-insensitive match on name, description, category
	SortBy   string // one of the SortBy constants; defaults to SortByName
}

// Browse returns the products matching q. The result is a fresh slice; the
// snapshot itself is never reordered.
func (c *Catalog) Browse(q Query) []Product {
	filtered := make([]Product, 0, len(c.products))
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	for _, p := range c.products {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.SortBy {
	case SortByPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price.LessThan(filtered[j].Price)
		})
	case SortByPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price.GreaterThan(filtered[j].Price)
		})
	case SortByRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Name < filtered[j].Name
		})
	}

	return filtered
}

func matches(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// Categories derives the category list, counting products per category in
// first-seen catalog order.
func (c *Catalog) Categories() []Category {
	var out []Category
	index := make(map[string]int)

	for _, p := range c.products {
		if i, ok := index[p.Category]; ok {
			out[i].Count++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, Category{
			ID:    p.Category,
			Name:  titleCase(p.Category),
			Icon:  IconFor(p.Category),
			Count: 1,
		})
	}

	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
