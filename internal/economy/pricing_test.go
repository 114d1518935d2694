package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDynamicPrice(t *testing.T) {
	tests := []struct {
		name           string
		base           int64
		purchasedToday int
		expected       int64
	}{
		{"first purchase", 100, 0, 100},
		{"fourth purchase", 100, 4, 100},
		{"fifth triggers inflation", 100, 5, 125},
		{"ninth purchase", 100, 9, 145},
		{"inflation caps at 50%", 100, 10, 150},
		{"far past the cap", 100, 500, 150},
		{"odd base floors", 33, 7, 44}, // floor(33 * 1.35)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DynamicPrice(tt.base, tt.purchasedToday))
		})
	}
}

func TestDynamicPriceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Int64Range(1, 100000).Draw(t, "base")
		count := rapid.IntRange(0, 1000).Draw(t, "count")

		price := DynamicPrice(base, count)
		next := DynamicPrice(base, count+1)

		if price < base {
			t.Fatalf("price %d fell below base %d at count %d", price, base, count)
		}
		if price > base+base/2 {
			t.Fatalf("price %d exceeds base+50%% (%d) at count %d", price, base+base/2, count)
		}
		if next < price {
			t.Fatalf("price decreased with more purchases: count %d costs %d, count %d costs %d",
				count, price, count+1, next)
		}
	})
}

func TestDailyLimit(t *testing.T) {
	assert.Equal(t, 20, DailyLimit("food"))
	assert.Equal(t, 10, DailyLimit("toys"))
	assert.Equal(t, 5, DailyLimit("abilities"))
	assert.Equal(t, 3, DailyLimit("premium"))
	assert.Equal(t, 5, DailyLimit("mystery"))
}

func TestValidatePurchase(t *testing.T) {
	t.Run("accepts affordable purchase under cap", func(t *testing.T) {
		quote, err := ValidatePurchase(1000, 100, "food", 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(100), quote.UnitPrice)
		assert.Equal(t, int64(200), quote.Total)
		assert.False(t, quote.Dynamic)
	})

	t.Run("applies inflated unit price", func(t *testing.T) {
		quote, err := ValidatePurchase(1000, 100, "food", 6, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(130), quote.UnitPrice)
		assert.True(t, quote.Dynamic)
	})

	t.Run("rejects over the daily cap", func(t *testing.T) {
		_, err := ValidatePurchase(100000, 10, "premium", 3, 1)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("quantity counts toward the cap", func(t *testing.T) {
		_, err := ValidatePurchase(100000, 10, "premium", 1, 3)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("rejects insufficient funds", func(t *testing.T) {
		_, err := ValidatePurchase(199, 100, "food", 0, 2)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("exact funds accepted", func(t *testing.T) {
		quote, err := ValidatePurchase(200, 100, "food", 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(200), quote.Total)
	})

	t.Run("cap check runs before funds check", func(t *testing.T) {
		_, err := ValidatePurchase(0, 10, "premium", 0, 4)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})
}
