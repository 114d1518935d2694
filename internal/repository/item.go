package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// ErrItemNotFound is returned when an item does not exist or is not
// available for sale.
var ErrItemNotFound = errors.New("item not found")

const itemColumns = `
	id, name, type, category, price,
	effect_hunger, effect_happiness, effect_xp,
	pet_types, icon, description, available
`

// ItemRepository handles shop item templates.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository instance.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func scanItem(row pgx.Row) (*model.Item, error) {
	var it model.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Type, &it.Category, &it.Price,
		&it.EffectHunger, &it.EffectHappiness, &it.EffectXP,
		&it.PetTypes, &it.Icon, &it.Description, &it.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	return &it, nil
}

// GetByID retrieves an item by id regardless of availability.
func (r *ItemRepository) GetByID(ctx context.Context, itemID int64) (*model.Item, error) {
	query := `SELECT` + itemColumns + `FROM items WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, itemID))
}

// ListAvailable retrieves all items for sale, cheapest first.
func (r *ItemRepository) ListAvailable(ctx context.Context) ([]*model.Item, error) {
	query := `SELECT` + itemColumns + `FROM items WHERE available ORDER BY price ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Upsert inserts or updates an item template by name; used by the seeder.
func (r *ItemRepository) Upsert(ctx context.Context, it *model.Item) error {
	const query = `
		INSERT INTO items (name, type, category, price, effect_hunger, effect_happiness, effect_xp, pet_types, icon, description, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name) DO UPDATE
		SET type = $2, category = $3, price = $4,
		    effect_hunger = $5, effect_happiness = $6, effect_xp = $7,
		    pet_types = $8, icon = $9, description = $10, available = $11
	`
	_, err := r.pool.Exec(ctx, query,
		it.Name, it.Type, it.Category, it.Price,
		it.EffectHunger, it.EffectHappiness, it.EffectXP,
		it.PetTypes, it.Icon, it.Description, it.Available,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// ListInventory retrieves a user's inventory with item details.
func (r *ItemRepository) ListInventory(ctx context.Context, userID int64) ([]*model.InventoryEntry, error) {
	query := `
		SELECT inv.user_id, inv.item_id, inv.quantity, inv.updated_at,` + itemColumns + `
		FROM user_inventory inv
		JOIN items ON items.id = inv.item_id
		WHERE inv.user_id = $1
		ORDER BY inv.updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var entries []*model.InventoryEntry
	for rows.Next() {
		var e model.InventoryEntry
		var it model.Item
		err := rows.Scan(
			&e.UserID, &e.ItemID, &e.Quantity, &e.UpdatedAt,
			&it.ID, &it.Name, &it.Type, &it.Category, &it.Price,
			&it.EffectHunger, &it.EffectHappiness, &it.EffectXP,
			&it.PetTypes, &it.Icon, &it.Description, &it.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		e.Item = &it
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// GetInventoryEntry retrieves one inventory row with item details.
func (r *ItemRepository) GetInventoryEntry(ctx context.Context, userID, itemID int64) (*model.InventoryEntry, error) {
	query := `
		SELECT inv.user_id, inv.item_id, inv.quantity, inv.updated_at,` + itemColumns + `
		FROM user_inventory inv
		JOIN items ON items.id = inv.item_id
		WHERE inv.user_id = $1 AND inv.item_id = $2
	`
	var e model.InventoryEntry
	var it model.Item
	err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(
		&e.UserID, &e.ItemID, &e.Quantity, &e.UpdatedAt,
		&it.ID, &it.Name, &it.Type, &it.Category, &it.Price,
		&it.EffectHunger, &it.EffectHappiness, &it.EffectXP,
		&it.PetTypes, &it.Icon, &it.Description, &it.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory entry: %w", err)
	}
	e.Item = &it
	return &e, nil
}
