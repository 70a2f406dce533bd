package shipping

import "github.com/shopspring/decimal"

type Method struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays string          `json:"estimatedDays"`
	Active        bool            `json:"isActive"`
}
