package economy

import (
	"errors"
	"math"
)

// Pricing errors surfaced to the purchase flow.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("daily purchase limit exceeded")
)

// dailyPurchaseLimits caps purchases per category per UTC day.
var dailyPurchaseLimits = map[string]int{
	"food":      20,
	"toys":      10,
	"abilities": 5,
	"premium":   3,
}

// defaultDailyLimit applies to categories without an explicit cap.
const defaultDailyLimit = 5

// DailyLimit returns the per-day purchase cap for a category.
func DailyLimit(category string) int {
	if limit, ok := dailyPurchaseLimits[category]; ok {
		return limit
	}
	return defaultDailyLimit
}

// DynamicPrice inflates a base price to discourage repeat purchases:
// the first five purchases in a day cost the base price, after which the
// price grows 5% per prior purchase, capped at +50%.
func DynamicPrice(basePrice int64, purchasedToday int) int64 {
	if purchasedToday < 5 {
		return basePrice
	}
	inflation := math.Min(float64(purchasedToday)*0.05, 0.5)
	return int64(math.Floor(float64(basePrice) * (1 + inflation)))
}

// Quote is the result of validating a prospective purchase.
type Quote struct {
	UnitPrice int64 `json:"unit_price"`
	Total     int64 `json:"total"`
	Dynamic   bool  `json:"dynamic"` // true when inflation raised the unit price
}

// ValidatePurchase checks funds and the daily cap for a prospective
// purchase and returns the effective pricing. The returned error is
// ErrLimitExceeded or ErrInsufficientFunds on rejection.
func ValidatePurchase(coins, basePrice int64, category string, purchasedToday, quantity int) (Quote, error) {
	if purchasedToday+quantity > DailyLimit(category) {
		return Quote{}, ErrLimitExceeded
	}

	unit := DynamicPrice(basePrice, purchasedToday)
	total := unit * int64(quantity)
	if coins < total {
		return Quote{}, ErrInsufficientFunds
	}

	return Quote{UnitPrice: unit, Total: total, Dynamic: unit != basePrice}, nil
}
