package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port string

	// TaxRate applies to the discounted subtotal at checkout.
	TaxRate decimal.Decimal

	// RecommendLimit is the default size of recommendation panels.
	RecommendLimit int
}

func Load() Config {
	return Config{
		Port:           getenv("PORT", "8084"),
		TaxRate:        parseDecimal(getenv("TAX_RATE", "0.08"), decimal.RequireFromString("0.08")),
		RecommendLimit: parseInt(getenv("RECOMMEND_LIMIT", "4"), 4),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDecimal(v string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
