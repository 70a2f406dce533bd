package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	ImageURL      string           `json:"image"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	InStock       bool             `json:"inStock"`
	Featured      bool             `json:"featured,omitempty"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// categoryIcons maps category ids to fixed icon identifiers used by the
// presentation layer. Unknown categories fall back to iconDefault.
var categoryIcons = map[string]string{
	"electronics": "smartphone",
	"clothing":    "shirt",
	"shoes":       "footprints",
	"accessories": "watch",
	"home":        "house",
	"beauty":      "sparkles",
	"sports":      "dumbbell",
	"books":       "book-open",
}

const iconDefault = "tag"

// IconFor returns the icon identifier for a category id.
func IconFor(categoryID string) string {
	if icon, ok := categoryIcons[categoryID]; ok {
		return icon
	}
	return iconDefault
}
