package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xssnick/tonutils-go/address"

	rediscache "github.com/joker-whysosireus/CryptoPay-Backend/internal/cache/redis"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidWallet = errors.New("invalid wallet address")
)

// Ad view rewards, with and without the purchased ad boost.
const (
	AdReward        = 0.01
	AdRewardBoosted = 0.03
)

type UserService interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	AddBalance(ctx context.Context, id int64, amount float64) (float64, error)
	SaveWallet(ctx context.Context, id int64, walletAddress string) (*models.Account, error)
	ActivateBooster(ctx context.Context, id int64, boosterType string) (models.Booster, int, error)
	WatchAdReward(ctx context.Context, id int64) (*models.Account, float64, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *rediscache.AccountCache // optional
}

func NewUserService(repo repository.UserRepository, cache *rediscache.AccountCache) UserService {
	return &userService{
		repo:  repo,
		cache: cache,
	}
}

// GetAccount reads through the cache when one is configured.
func (s *userService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetByID(ctx, id); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Int64("telegram_user_id", id).Msg("Account cache read failed")
		}
	}

	account, err := s.repo.GetByTelegramID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.cacheSet(ctx, account)
	return account, nil
}

// AddBalance credits (or debits, with a negative amount) the balance. The
// balance is clamped at zero and rounded to 6 decimal places.
func (s *userService) AddBalance(ctx context.Context, id int64, amount float64) (float64, error) {
	account, err := s.getFresh(ctx, id)
	if err != nil {
		return 0, err
	}

	newBalance := models.Round6(account.Balance + amount)
	if newBalance < 0 {
		newBalance = 0
	}

	if err := s.repo.UpdateBalance(ctx, id, newBalance); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	s.invalidate(ctx, id)
	return newBalance, nil
}

// SaveWallet validates the address as a TON wallet and stores it. Wallet
// addresses are mutable; saving replaces any previous value.
func (s *userService) SaveWallet(ctx context.Context, id int64, walletAddress string) (*models.Account, error) {
	if _, err := address.ParseAddr(walletAddress); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWallet, err)
	}

	account, err := s.getFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateWallet(ctx, id, walletAddress); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	account.Wallets = walletAddress
	s.invalidate(ctx, id)
	return account, nil
}

// ActivateBooster increments the counter for the purchased booster and
// returns the new count.
func (s *userService) ActivateBooster(ctx context.Context, id int64, boosterType string) (models.Booster, int, error) {
	booster, err := models.ParseBooster(boosterType)
	if err != nil {
		return "", 0, err
	}

	account, err := s.getFresh(ctx, id)
	if err != nil {
		return "", 0, err
	}

	newCount := account.BoosterCount(booster) + 1
	if err := s.repo.UpdateBoosterCount(ctx, id, booster, newCount); err != nil {
		return "", 0, fmt.Errorf("failed to update booster: %w", err)
	}

	s.invalidate(ctx, id)
	return booster, newCount, nil
}

// WatchAdReward credits one ad view: 0.01, or 0.03 while the ad boost is
// active, and bumps both ad counters.
func (s *userService) WatchAdReward(ctx context.Context, id int64) (*models.Account, float64, error) {
	account, err := s.getFresh(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	reward := AdReward
	if account.HasBoost {
		reward = AdRewardBoosted
	}

	account.Balance = models.Round6(account.Balance + reward)
	account.TotalAdsWatched++
	account.WeeklyAdsWatched++

	if err := s.repo.UpdateAdStats(ctx, id, account.Balance, account.TotalAdsWatched, account.WeeklyAdsWatched); err != nil {
		return nil, 0, fmt.Errorf("failed to update ad stats: %w", err)
	}

	s.invalidate(ctx, id)
	return account, reward, nil
}

// getFresh bypasses the cache for read-modify-write sequences.
func (s *userService) getFresh(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.repo.GetByTelegramID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *userService) cacheSet(ctx context.Context, account *models.Account) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, account); err != nil {
		log.Warn().Err(err).Int64("telegram_user_id", account.TelegramUserID).Msg("Account cache write failed")
	}
}

func (s *userService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Int64("telegram_user_id", id).Msg("Account cache invalidation failed")
	}
}
