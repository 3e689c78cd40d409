package service

import (
	"fender-store/internal/models"

	"github.com/shopspring/decimal"
)

// ResolvedCart is the cart of a requester. SessionCreated is set when a new
// anonymous session key was issued and must be sent back to the browser.
type ResolvedCart struct {
	Cart           *models.Cart
	SessionKey     string
	SessionCreated bool
	CartCreated    bool
}

type CartLine struct {
	Item      models.CartItem `json:"item"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Cart  *models.Cart    `json:"cart"`
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// cartTotal суммирует quantity * price по текущим ценам вариантов
func cartTotal(items []models.CartItem) (decimal.Decimal, []CartLine) {
	total := decimal.Zero
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lt := it.LineTotal()
		total = total.Add(lt)
		lines = append(lines, CartLine{Item: it, LineTotal: lt})
	}
	return total, lines
}
