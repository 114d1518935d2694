package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// TransactionRepository records coin movements for auditing and the
// economic summary. Rows are append-only.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository instance.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Record appends one coin movement. Positive amounts are credits,
// negative amounts are debits.
func (r *TransactionRepository) Record(ctx context.Context, userID, amount int64, txType, description string) error {
	const query = `
		INSERT INTO transactions (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := r.pool.Exec(ctx, query, userID, amount, txType, description); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// ListRecent returns a user's newest transactions, capped at limit.
func (r *TransactionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}

// SumByType aggregates a user's lifetime totals per transaction type.
func (r *TransactionRepository) SumByType(ctx context.Context, userID int64) (map[string]int64, error) {
	const query = `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY type
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var txType string
		var total int64
		if err := rows.Scan(&txType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction sum: %w", err)
		}
		sums[txType] = total
	}
	return sums, rows.Err()
}
