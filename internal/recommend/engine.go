package recommend

import (
	"sort"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// tierCap bounds how many candidates each priority tier may contribute,
// independent of the caller's limit. Truncation to the limit happens once,
// after every tier has been evaluated.
const tierCap = 2

// Intent selects the single-tier ranking used by dashboard panels.
type Intent string

const (
	IntentTrending     Intent = "trending"
	IntentPopular      Intent = "popular"
	IntentFeaturedPick Intent = "featured"
)

// ParseIntent maps a request string to an Intent.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentTrending, IntentPopular, IntentFeaturedPick:
		return Intent(s), true
	}
	return "", false
}

// Recommend produces a ranked, deduplicated suggestion list for the given
// cart and optional current product. Candidates are drawn from five priority
// tiers in fixed order; within a tier, ties keep catalog order, so the output
// is fully deterministic for fixed inputs. An empty result is not an error.
func Recommend(cat *catalog.Catalog, lines []cart.Line, current *catalog.Product, limit int) []catalog.Product {
	inCart := make(map[string]bool, len(lines))
	cartCategories := make(map[string]bool, len(lines))
	for _, ln := range lines {
		inCart[ln.ProductID] = true
		cartCategories[ln.Category] = true
	}

	available := make([]catalog.Product, 0, cat.Len())
	for _, p := range cat.Products() {
		if current != nil && p.ID == current.ID {
			continue
		}
		if inCart[p.ID] || !p.InStock {
			continue
		}
		available = append(available, p)
	}

	picked := make(map[string]bool)
	suggestions := make([]catalog.Product, 0, 5*tierCap)

	take := func(candidates []catalog.Product) {
		n := 0
		for _, p := range candidates {
			if n == tierCap {
				break
			}
			if picked[p.ID] {
				continue
			}
			picked[p.ID] = true
			suggestions = append(suggestions, p)
			n++
		}
	}

	// Tier 1: same category as the current product.
	if current != nil {
		take(filter(available, func(p catalog.Product) bool {
			return p.Category == current.Category
		}))
	}

	// Tier 2: same category as anything already in the cart.
	if len(cartCategories) > 0 {
		take(filter(available, func(p catalog.Product) bool {
			return cartCategories[p.Category]
		}))
	}

	// Tier 3: featured products.
	take(filter(available, func(p catalog.Product) bool {
		return p.Featured
	}))

	// Tier 4: highly rated, best first. Stable sort keeps catalog order on ties.
	highRated := filter(available, func(p catalog.Product) bool {
		return p.Rating >= 4.5
	})
	sort.SliceStable(highRated, func(i, j int) bool {
		return highRated[i].Rating > highRated[j].Rating
	})
	take(highRated)

	// Tier 5: everything else, by review count.
	rest := make([]catalog.Product, 0, len(available))
	for _, p := range available {
		if !picked[p.ID] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Reviews > rest[j].Reviews
	})
	take(rest)

	if limit < 0 {
		limit = 0
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// RankByIntent is the single-tier ranking behind the dashboard panels. Only
// in-stock products are considered. An empty result means "hide this panel".
func RankByIntent(cat *catalog.Catalog, intent Intent, limit int) []catalog.Product {
	inStock := filter(cat.Products(), func(p catalog.Product) bool {
		return p.InStock
	})

	var ranked []catalog.Product
	switch intent {
	case IntentTrending:
		ranked = inStock
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Rating*float64(ranked[i].Reviews) > ranked[j].Rating*float64(ranked[j].Reviews)
		})
	case IntentPopular:
		ranked = inStock
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Reviews > ranked[j].Reviews
		})
	case IntentFeaturedPick:
		ranked = filter(inStock, func(p catalog.Product) bool {
			return p.Featured
		})
	default:
		return nil
	}

	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func filter(products []catalog.Product, keep func(catalog.Product) bool) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
