package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"petgame-backend/internal/cache"
	"petgame-backend/internal/economy"
	"petgame-backend/internal/model"
	"petgame-backend/internal/pkg/lock"
	"petgame-backend/internal/repository"
)

// PriceView is a shop listing entry with the buyer's effective price.
type PriceView struct {
	Item           *model.Item `json:"item"`
	EffectivePrice int64       `json:"effective_price"`
	Dynamic        bool        `json:"dynamic"`
	DailyLimit     int         `json:"daily_limit"`
	PurchasedToday int         `json:"purchased_today"`
}

// UseItemResult is the outcome of consuming an inventory item on a pet.
type UseItemResult struct {
	Pet          *model.Pet `json:"pet"`
	LevelsGained int        `json:"levels_gained"`
	LevelBonus   int64      `json:"level_bonus"`
}

// ShopService handles the item shop, purchases and inventory use.
type ShopService struct {
	userRepo     *repository.UserRepository
	petRepo      *repository.PetRepository
	itemRepo     *repository.ItemRepository
	purchaseRepo *repository.PurchaseRepository
	txRepo       *repository.TransactionRepository
	missions     *MissionService
	cache        cache.Cache
	userLock     *lock.UserLock
	now          func() time.Time
}

// NewShopService creates a new ShopService instance.
func NewShopService(
	userRepo *repository.UserRepository,
	petRepo *repository.PetRepository,
	itemRepo *repository.ItemRepository,
	purchaseRepo *repository.PurchaseRepository,
	txRepo *repository.TransactionRepository,
	missions *MissionService,
	c cache.Cache,
	userLock *lock.UserLock,
) *ShopService {
	return &ShopService{
		userRepo:     userRepo,
		petRepo:      petRepo,
		itemRepo:     itemRepo,
		purchaseRepo: purchaseRepo,
		txRepo:       txRepo,
		missions:     missions,
		cache:        c,
		userLock:     userLock,
		now:          time.Now,
	}
}

// ListItems returns the catalog with the caller's effective prices and
// remaining daily headroom.
func (s *ShopService) ListItems(ctx context.Context, userID int64) ([]*PriceView, error) {
	items, err := s.itemRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.userRepo.GetDailyPurchases(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*PriceView, 0, len(items))
	for _, it := range items {
		bought := purchases[it.Category]
		price := economy.DynamicPrice(it.Price, bought)
		views = append(views, &PriceView{
			Item:           it,
			EffectivePrice: price,
			Dynamic:        price != it.Price,
			DailyLimit:     economy.DailyLimit(it.Category),
			PurchasedToday: bought,
		})
	}
	return views, nil
}

// Purchase buys quantity units of an item. Pricing, the daily cap check,
// the debit and the inventory grant commit atomically.
func (s *ShopService) Purchase(ctx context.Context, userID, itemID int64, quantity int) (*repository.PurchaseResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if err := s.userRepo.ResetDailyIfStale(ctx, userID); err != nil {
		return nil, err
	}

	result, err := s.purchaseRepo.PurchaseItem(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.cache.Del(ctx, cache.UserProfileKey(userID), cache.UserEconomicKey(userID))
	s.missions.TrackEvent(ctx, userID, model.MissionTypePurchase, int64(quantity))
	s.missions.TrackEvent(ctx, userID, model.MissionTypeSpendCoins, result.Quote.Total)

	log.Info().Int64("user_id", userID).Str("item", result.Item.Name).
		Int("quantity", quantity).Int64("total", result.Quote.Total).
		Msg("Purchase completed")
	return result, nil
}

// Inventory returns the user's inventory with item details.
func (s *ShopService) Inventory(ctx context.Context, userID int64) ([]*model.InventoryEntry, error) {
	return s.itemRepo.ListInventory(ctx, userID)
}

// UseItem consumes one unit of an owned item on a compatible pet and
// applies its effects. Runs under the per-user lock like the other pet
// read-modify-write flows.
func (s *ShopService) UseItem(ctx context.Context, userID, itemID, petID int64) (*UseItemResult, error) {
	var result *UseItemResult
	err := s.userLock.WithLock(userID, func() error {
		item, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		pet, err := s.petRepo.GetByID(ctx, petID)
		if err != nil {
			return err
		}
		if pet.OwnerID != userID {
			return ErrNotPetOwner
		}
		if !pet.AcceptsItem(item) {
			return ErrItemIncompatible
		}

		if err := s.purchaseRepo.ConsumeItem(ctx, userID, itemID); err != nil {
			return err
		}

		now := s.now()
		pet.ApplyDecay(now)
		levels := pet.ApplyItem(item)
		if err := s.petRepo.Save(ctx, pet); err != nil {
			return err
		}

		bonus := levelBonusFor(pet.Level, levels)
		if bonus > 0 {
			if _, err := s.userRepo.Credit(ctx, userID, bonus, 0); err != nil {
				return err
			}
			if err := s.txRepo.Record(ctx, userID, bonus, model.TxTypeLevelBonus,
				fmt.Sprintf("Pet reached level %d", pet.Level)); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record level bonus transaction")
			}
		}

		result = &UseItemResult{Pet: pet, LevelsGained: levels, LevelBonus: bonus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := append(cache.PetKeys(petID, userID), cache.UserProfileKey(userID), cache.UserEconomicKey(userID))
	s.cache.Del(ctx, keys...)
	return result, nil
}
