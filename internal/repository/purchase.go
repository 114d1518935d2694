package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/economy"
	"petgame-backend/internal/model"
)

// Inventory errors surfaced by the use-item flow.
var ErrInventoryEmpty = errors.New("item not in inventory")

// PurchaseRepository runs the money-moving flows that must be atomic:
// shop purchases and inventory consumption. Everything inside one call
// commits or rolls back together.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository creates a new PurchaseRepository instance.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// PurchaseResult reports a committed purchase.
type PurchaseResult struct {
	Quote       economy.Quote `json:"quote"`
	Item        *model.Item   `json:"item"`
	NewBalance  int64         `json:"new_balance"`
	NewQuantity int           `json:"new_quantity"`
}

// PurchaseItem executes a purchase inside a single transaction: it
// re-reads the buyer's balance and today's category count, validates the
// price and cap against that state, debits conditionally, bumps the
// purchase history and upserts the inventory row. The conditional debit
// keeps coins non-negative under concurrent purchases.
func (r *PurchaseRepository) PurchaseItem(ctx context.Context, userID, itemID int64, quantity int) (*PurchaseResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	item, err := scanItem(tx.QueryRow(ctx,
		`SELECT`+itemColumns+`FROM items WHERE id = $1 AND available`, itemID))
	if err != nil {
		return nil, err
	}

	var coins int64
	err = tx.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	var purchasedToday int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(purchase_count, 0) FROM daily_purchases
		WHERE user_id = $1 AND category = $2 AND purchase_date = (now() AT TIME ZONE 'utc')::date
	`, userID, item.Category).Scan(&purchasedToday)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read purchase history: %w", err)
	}

	quote, err := economy.ValidatePurchase(coins, item.Price, item.Category, purchasedToday, quantity)
	if err != nil {
		return nil, err
	}

	var newBalance int64
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET coins = coins - $2, daily_coins_spent = daily_coins_spent + $2, updated_at = NOW()
		WHERE id = $1 AND coins >= $2
		RETURNING coins
	`, userID, quote.Total).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, economy.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to debit user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO daily_purchases (user_id, category, purchase_date, purchase_count)
		VALUES ($1, $2, (now() AT TIME ZONE 'utc')::date, $3)
		ON CONFLICT (user_id, category, purchase_date)
		DO UPDATE SET purchase_count = daily_purchases.purchase_count + $3
	`, userID, item.Category, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to bump purchase history: %w", err)
	}

	var newQuantity int
	err = tx.QueryRow(ctx, `
		INSERT INTO user_inventory (user_id, item_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = user_inventory.quantity + $3, updated_at = NOW()
		RETURNING quantity
	`, userID, itemID, quantity).Scan(&newQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, userID, -quote.Total, model.TxTypePurchase, fmt.Sprintf("Bought %dx %s", quantity, item.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return &PurchaseResult{Quote: quote, Item: item, NewBalance: newBalance, NewQuantity: newQuantity}, nil
}

// ConsumeItem decrements one unit of an item from the user's inventory
// and deletes the row at zero. Returns ErrInventoryEmpty when the user
// holds none.
func (r *PurchaseRepository) ConsumeItem(ctx context.Context, userID, itemID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var remaining int
	err = tx.QueryRow(ctx, `
		UPDATE user_inventory
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE user_id = $1 AND item_id = $2 AND quantity > 0
		RETURNING quantity
	`, userID, itemID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInventoryEmpty
		}
		return fmt.Errorf("failed to consume item: %w", err)
	}

	if remaining == 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM user_inventory WHERE user_id = $1 AND item_id = $2`, userID, itemID)
		if err != nil {
			return fmt.Errorf("failed to clear inventory row: %w", err)
		}
	}

	return tx.Commit(ctx)
}
