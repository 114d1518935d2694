// Tests use testcontainers-go to spin up a PostgreSQL container and are
// skipped when Docker is not available.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"petgame-backend/internal/economy"
	"petgame-backend/internal/model"
	"petgame-backend/internal/pkg/db"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection
// pool with the schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return pool, cleanup
}

func createTestUser(t *testing.T, pool *pgxpool.Pool, username string) *model.User {
	t.Helper()
	user, err := NewUserRepository(pool).Create(context.Background(),
		username, username+"@example.com", "hash")
	require.NoError(t, err)
	return user
}

// ============================================================================
// UserRepository
// ============================================================================

func TestUserRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(100), user.Coins) // starting balance
	assert.Equal(t, 1, user.Level)
	assert.Nil(t, user.LastLogin)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Duplicate username maps to the sentinel
	_, err = repo.Create(ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestUserRepository_Credit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "bob")

	updated, err := repo.Credit(ctx, user.ID, 50, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(150), updated.Coins)
	assert.Equal(t, int64(25), updated.XP)
	assert.Equal(t, int64(50), updated.DailyCoinsEarned)

	_, err = repo.Credit(ctx, 99999, 10, 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Cooldowns(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "carol")

	// Never performed
	last, err := repo.GetCooldown(ctx, user.ID, model.ActionFeed)
	require.NoError(t, err)
	assert.Nil(t, last)

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.TouchCooldown(ctx, user.ID, model.ActionFeed, at))

	last, err = repo.GetCooldown(ctx, user.ID, model.ActionFeed)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, at, *last, time.Second)

	// Touch again moves the timestamp
	later := at.Add(10 * time.Minute)
	require.NoError(t, repo.TouchCooldown(ctx, user.ID, model.ActionFeed, later))

	all, err := repo.GetCooldowns(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.WithinDuration(t, later, all[model.ActionFeed], time.Second)
}

// ============================================================================
// PetRepository
// ============================================================================

func TestPetRepository_CreateAndSave(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPetRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "dora")

	pet, err := repo.Create(ctx, user.ID, "Mochi", "cat", model.PetAbilities["cat"])
	require.NoError(t, err)
	assert.Equal(t, 50, pet.Hunger)
	assert.Equal(t, 50, pet.Happiness)
	assert.Equal(t, []string{"Heal", "Lucky"}, pet.Abilities)

	pet.Hunger = 70
	pet.XP = 10
	pet.FeedCount = 1
	require.NoError(t, repo.Save(ctx, pet))

	got, err := repo.GetByID(ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Hunger)
	assert.Equal(t, int64(10), got.XP)
	assert.Equal(t, 1, got.FeedCount)
}

func TestPetRepository_OwnerStats(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPetRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "eve")

	// No pets yet
	stats, err := repo.GetOwnerStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.PetCount)
	assert.Equal(t, 0, stats.MaxLevel)

	p1, err := repo.Create(ctx, user.ID, "A", "cat", model.PetAbilities["cat"])
	require.NoError(t, err)
	p2, err := repo.Create(ctx, user.ID, "B", "dog", model.PetAbilities["dog"])
	require.NoError(t, err)

	p1.Level, p1.XP, p1.FeedCount = 3, 40, 7
	require.NoError(t, repo.Save(ctx, p1))
	p2.Level, p2.XP, p2.PlayCount = 5, 60, 9
	require.NoError(t, repo.Save(ctx, p2))

	stats, err = repo.GetOwnerStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PetCount)
	assert.Equal(t, 5, stats.MaxLevel)
	assert.Equal(t, int64(7), stats.TotalFeeds)
	assert.Equal(t, int64(9), stats.TotalPlays)
	assert.Equal(t, int64(100), stats.TotalXP)
}

// ============================================================================
// MissionRepository
// ============================================================================

func seedMission(t *testing.T, pool *pgxpool.Pool, code string, target int64) {
	t.Helper()
	err := NewMissionRepository(pool).UpsertTemplate(context.Background(), &model.MissionTemplate{
		Code: code, Description: "test", Type: model.MissionTypeFeed,
		TargetProgress: target, RewardCoins: 10, RewardXP: 5, Active: true,
	})
	require.NoError(t, err)
}

func TestMissionRepository_IncrementCompletesOnce(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMissionRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "fred")
	seedMission(t, pool, "feed_3", 3)
	day := model.DayUTC(time.Now())

	upd, err := repo.IncrementProgress(ctx, user.ID, "feed_3", 1, 3, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.Progress)
	assert.False(t, upd.JustCompleted)

	upd, err = repo.IncrementProgress(ctx, user.ID, "feed_3", 1, 3, day)
	require.NoError(t, err)
	assert.False(t, upd.JustCompleted)

	// The crossing increment reports completion exactly once
	upd, err = repo.IncrementProgress(ctx, user.ID, "feed_3", 1, 3, day)
	require.NoError(t, err)
	assert.True(t, upd.Completed)
	assert.True(t, upd.JustCompleted)

	// Further increments cap at target and never re-complete
	upd, err = repo.IncrementProgress(ctx, user.ID, "feed_3", 5, 3, day)
	require.NoError(t, err)
	assert.Equal(t, int64(3), upd.Progress)
	assert.True(t, upd.Completed)
	assert.False(t, upd.JustCompleted)

	progress, err := repo.ListProgressForDay(ctx, user.ID, day)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, int64(3), progress[0].CurrentProgress)
	assert.True(t, progress[0].Completed)
}

func TestMissionRepository_IncrementOvershootCompletes(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMissionRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "gina")
	seedMission(t, pool, "earn_100", 100)
	day := model.DayUTC(time.Now())

	// A single large event can cross the target in one step
	upd, err := repo.IncrementProgress(ctx, user.ID, "earn_100", 250, 100, day)
	require.NoError(t, err)
	assert.True(t, upd.JustCompleted)
	assert.Equal(t, int64(100), upd.Progress)

	progress, err := repo.ListProgressForDay(ctx, user.ID, day)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, int64(100), progress[0].CurrentProgress)
}

func TestMissionRepository_ClaimGuards(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMissionRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "hank")
	seedMission(t, pool, "feed_1", 1)
	day := model.DayUTC(time.Now())

	// No progress row yet
	err := repo.MarkClaimed(ctx, user.ID, "feed_1", day)
	assert.ErrorIs(t, err, ErrMissionIncomplete)

	_, err = repo.IncrementProgress(ctx, user.ID, "feed_1", 1, 1, day)
	require.NoError(t, err)

	require.NoError(t, repo.MarkClaimed(ctx, user.ID, "feed_1", day))

	// Claiming twice is rejected
	err = repo.MarkClaimed(ctx, user.ID, "feed_1", day)
	assert.ErrorIs(t, err, ErrMissionClaimed)
}

func TestMissionRepository_RewardedIndependentOfClaimed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMissionRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "ivy")
	seedMission(t, pool, "feed_2", 2)
	day := model.DayUTC(time.Now())

	// Incomplete missions cannot be rewarded
	flipped, err := repo.MarkRewarded(ctx, user.ID, "feed_2", day)
	require.NoError(t, err)
	assert.False(t, flipped)

	upd, err := repo.IncrementProgress(ctx, user.ID, "feed_2", 2, 2, day)
	require.NoError(t, err)
	require.True(t, upd.JustCompleted)

	// The automatic payout flips the reward guard once
	flipped, err = repo.MarkRewarded(ctx, user.ID, "feed_2", day)
	require.NoError(t, err)
	assert.True(t, flipped)

	// The payout does not consume the claim: the first explicit claim
	// after completion succeeds
	require.NoError(t, repo.MarkClaimed(ctx, user.ID, "feed_2", day))

	err = repo.MarkClaimed(ctx, user.ID, "feed_2", day)
	assert.ErrorIs(t, err, ErrMissionClaimed)

	// The reward guard never flips twice
	flipped, err = repo.MarkRewarded(ctx, user.ID, "feed_2", day)
	require.NoError(t, err)
	assert.False(t, flipped)
}

// ============================================================================
// AchievementRepository
// ============================================================================

func TestAchievementRepository_UnlockIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewAchievementRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "iris")

	inserted, err := repo.Unlock(ctx, user.ID, "first_pet")
	require.NoError(t, err)
	assert.True(t, inserted)

	// Second unlock is a no-op, so rewards are never paid twice
	inserted, err = repo.Unlock(ctx, user.ID, "first_pet")
	require.NoError(t, err)
	assert.False(t, inserted)

	unlocked, err := repo.ListUnlocked(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocked, 1)

	set, err := repo.UnlockedSet(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, set["first_pet"])
	assert.False(t, set["pet_lover"])
}

// ============================================================================
// PurchaseRepository
// ============================================================================

func seedItem(t *testing.T, pool *pgxpool.Pool, name, category string, price int64) *model.Item {
	t.Helper()
	ctx := context.Background()
	repo := NewItemRepository(pool)
	err := repo.Upsert(ctx, &model.Item{
		Name: name, Type: "food", Category: category, Price: price,
		EffectHunger: 15, PetTypes: []string{"all"}, Available: true,
	})
	require.NoError(t, err)

	items, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("seeded item %q not found", name)
	return nil
}

func TestPurchaseRepository_PurchaseItem(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPurchaseRepository(pool)
	userRepo := NewUserRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "jack") // 100 coins
	item := seedItem(t, pool, "Basic Food", model.CategoryFood, 10)

	result, err := repo.PurchaseItem(ctx, user.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(20), result.Quote.Total)
	assert.Equal(t, int64(80), result.NewBalance)
	assert.Equal(t, 2, result.NewQuantity)

	// Ledger, history and inventory all moved together
	updated, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), updated.Coins)
	assert.Equal(t, int64(20), updated.DailyCoinsSpent)

	count, err := userRepo.GetDailyPurchaseCount(ctx, user.ID, model.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := NewItemRepository(pool).ListInventory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, "Basic Food", entries[0].Item.Name)
}

func TestPurchaseRepository_InsufficientFunds(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPurchaseRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "kate") // 100 coins
	item := seedItem(t, pool, "Golden Bowl", model.CategoryPremium, 150)

	_, err := repo.PurchaseItem(ctx, user.ID, item.ID, 1)
	assert.ErrorIs(t, err, economy.ErrInsufficientFunds)

	// Nothing committed
	updated, err := NewUserRepository(pool).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), updated.Coins)

	entries, err := NewItemRepository(pool).ListInventory(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurchaseRepository_DailyCap(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPurchaseRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "liam")
	item := seedItem(t, pool, "Gem", model.CategoryPremium, 1) // cap 3/day

	_, err := repo.PurchaseItem(ctx, user.ID, item.ID, 3)
	require.NoError(t, err)

	_, err = repo.PurchaseItem(ctx, user.ID, item.ID, 1)
	assert.ErrorIs(t, err, economy.ErrLimitExceeded)
}

func TestPurchaseRepository_ConsumeItem(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPurchaseRepository(pool)
	itemRepo := NewItemRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "mia")
	item := seedItem(t, pool, "Snack", model.CategoryFood, 5)

	_, err := repo.PurchaseItem(ctx, user.ID, item.ID, 2)
	require.NoError(t, err)

	require.NoError(t, repo.ConsumeItem(ctx, user.ID, item.ID))

	entry, err := itemRepo.GetInventoryEntry(ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Quantity)

	// Consuming the last unit deletes the row
	require.NoError(t, repo.ConsumeItem(ctx, user.ID, item.ID))
	_, err = itemRepo.GetInventoryEntry(ctx, user.ID, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Empty inventory rejects further use
	err = repo.ConsumeItem(ctx, user.ID, item.ID)
	assert.ErrorIs(t, err, ErrInventoryEmpty)
}

// ============================================================================
// TransactionRepository
// ============================================================================

func TestTransactionRepository_RecordAndSum(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewTransactionRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool, "nora")

	require.NoError(t, repo.Record(ctx, user.ID, 10, model.TxTypeFeed, "Pet fed!"))
	require.NoError(t, repo.Record(ctx, user.ID, 15, model.TxTypeFeed, "Pet fed!"))
	require.NoError(t, repo.Record(ctx, user.ID, -20, model.TxTypePurchase, "Bought 2x Basic Food"))

	recent, err := repo.ListRecent(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	sums, err := repo.SumByType(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), sums[model.TxTypeFeed])
	assert.Equal(t, int64(-20), sums[model.TxTypePurchase])
}
