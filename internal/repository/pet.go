package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// ErrPetNotFound is returned when a pet does not exist.
var ErrPetNotFound = errors.New("pet not found")

const petColumns = `
	id, owner_id, name, type, hunger, happiness, level, xp,
	feed_count, play_count, abilities, last_fed, last_played,
	created_at, updated_at
`

// PetRepository handles pet persistence.
type PetRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository creates a new PetRepository instance.
func NewPetRepository(pool *pgxpool.Pool) *PetRepository {
	return &PetRepository{pool: pool}
}

func scanPet(row pgx.Row) (*model.Pet, error) {
	var p model.Pet
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Type, &p.Hunger, &p.Happiness, &p.Level, &p.XP,
		&p.FeedCount, &p.PlayCount, &p.Abilities, &p.LastFed, &p.LastPlayed,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to scan pet: %w", err)
	}
	return &p, nil
}

// Create creates a pet with default stats and the abilities fixed for
// its type.
func (r *PetRepository) Create(ctx context.Context, ownerID int64, name, petType string, abilities []string) (*model.Pet, error) {
	query := `
		INSERT INTO pets (owner_id, name, type, hunger, happiness, level, xp, feed_count, play_count, abilities, last_fed, last_played, created_at, updated_at)
		VALUES ($1, $2, $3, 50, 50, 1, 0, 0, 0, $4, NOW(), NOW(), NOW(), NOW())
		RETURNING` + petColumns

	pet, err := scanPet(r.pool.QueryRow(ctx, query, ownerID, name, petType, abilities))
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return pet, nil
}

// GetByID retrieves a pet by id. Returns ErrPetNotFound if absent.
func (r *PetRepository) GetByID(ctx context.Context, petID int64) (*model.Pet, error) {
	query := `SELECT` + petColumns + `FROM pets WHERE id = $1`
	return scanPet(r.pool.QueryRow(ctx, query, petID))
}

// ListByOwner retrieves all pets for a user, highest level first.
func (r *PetRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Pet, error) {
	query := `SELECT` + petColumns + `FROM pets WHERE owner_id = $1 ORDER BY level DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	var pets []*model.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

// Save persists a pet's mutable fields after an in-memory mutation.
// The per-user lock serializes these read-modify-write flows.
func (r *PetRepository) Save(ctx context.Context, pet *model.Pet) error {
	const query = `
		UPDATE pets
		SET hunger = $2, happiness = $3, level = $4, xp = $5,
		    feed_count = $6, play_count = $7, last_fed = $8, last_played = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		pet.ID, pet.Hunger, pet.Happiness, pet.Level, pet.XP,
		pet.FeedCount, pet.PlayCount, pet.LastFed, pet.LastPlayed,
	)
	if err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

// Delete removes a pet.
func (r *PetRepository) Delete(ctx context.Context, petID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, petID)
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

// OwnerStats aggregates the per-owner numbers the achievement
// predicates look at.
type OwnerStats struct {
	PetCount   int
	MaxLevel   int
	TotalFeeds int64
	TotalPlays int64
	TotalXP    int64
}

// GetOwnerStats computes pet aggregates for one user in a single query.
func (r *PetRepository) GetOwnerStats(ctx context.Context, ownerID int64) (*OwnerStats, error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(MAX(level), 0),
		       COALESCE(SUM(feed_count), 0),
		       COALESCE(SUM(play_count), 0),
		       COALESCE(SUM(xp), 0)
		FROM pets WHERE owner_id = $1
	`
	var s OwnerStats
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&s.PetCount, &s.MaxLevel, &s.TotalFeeds, &s.TotalPlays, &s.TotalXP)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pet stats: %w", err)
	}
	return &s, nil
}
