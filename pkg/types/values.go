package types

import "strings"

// DefaultCurrency applies when a budget omits its currency.
const DefaultCurrency = "INR"

// BudgetRange is an inclusive spend window in whole rupees.
type BudgetRange struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

// Normalized trims the currency and applies the default.
func (b BudgetRange) Normalized() BudgetRange {
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	return b
}

// BuyerInfo is the contact captured with an order.
type BuyerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// GiftCardPurchase is attached to an order when the buyer adds a gift card.
type GiftCardPurchase struct {
	RecipientName  string  `json:"recipientName"`
	RecipientEmail string  `json:"recipientEmail"`
	Amount         int64   `json:"amount"`
	Message        *string `json:"message,omitempty"`
}

// PortfolioItem is one showcased project of a designer.
type PortfolioItem struct {
	ID          string          `json:"id"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Style       StylePreference `json:"style"`
}
