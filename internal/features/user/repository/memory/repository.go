// Package memory provides an in-memory UserRepository with the same
// not-found and unique-conflict semantics as the Postgres implementation.
// It backs tests and local runs without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*models.Account
}

func NewMemoryRepository() repository.UserRepository {
	return &memoryRepository{accounts: make(map[int64]*models.Account)}
}

func (r *memoryRepository) GetByTelegramID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *memoryRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.TelegramUserID]; ok {
		return repository.ErrUserAlreadyExists
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	copied := *account
	r.accounts[account.TelegramUserID] = &copied
	return nil
}

func (r *memoryRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	return r.update(id, func(acc *models.Account) {
		acc.Avatar = &avatar
	})
}

func (r *memoryRepository) UpdateWallet(ctx context.Context, id int64, wallet string) error {
	return r.update(id, func(acc *models.Account) {
		acc.Wallets = wallet
	})
}

func (r *memoryRepository) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	return r.update(id, func(acc *models.Account) {
		acc.Balance = balance
	})
}

func (r *memoryRepository) UpdateAdStats(ctx context.Context, id int64, balance float64, total, weekly int) error {
	return r.update(id, func(acc *models.Account) {
		acc.Balance = balance
		acc.TotalAdsWatched = total
		acc.WeeklyAdsWatched = weekly
	})
}

func (r *memoryRepository) UpdateReferralStats(ctx context.Context, id int64, count int, earned, balance float64) error {
	return r.update(id, func(acc *models.Account) {
		acc.ReferralsCount = count
		acc.ReferralsEarned = earned
		acc.Balance = balance
	})
}

func (r *memoryRepository) UpdateBoosterCount(ctx context.Context, id int64, booster models.Booster, count int) error {
	return r.update(id, func(acc *models.Account) {
		switch booster {
		case models.BoosterMini:
			acc.MiniBooster = count
		case models.BoosterBasic:
			acc.BasicBooster = count
		case models.BoosterAdvanced:
			acc.AdvancedBooster = count
		case models.BoosterPro:
			acc.ProBooster = count
		case models.BoosterUltimate:
			acc.UltimateBooster = count
		case models.BoosterMega:
			acc.MegaBooster = count
		}
	})
}

func (r *memoryRepository) SetAdBoost(ctx context.Context, id int64) error {
	return r.update(id, func(acc *models.Account) {
		acc.HasBoost = true
	})
}

func (r *memoryRepository) update(id int64, apply func(*models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	apply(acc)
	acc.UpdatedAt = time.Now()
	return nil
}
