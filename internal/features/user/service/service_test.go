package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository/memory"
)

func seedAccount(t *testing.T, repo repository.UserRepository, acc *models.Account) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), acc))
}

func TestGetAccount(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	seedAccount(t, repo, &models.Account{TelegramUserID: 42, FirstName: "Ann"})

	account, err := svc.GetAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ann", account.FirstName)

	_, err = svc.GetAccount(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddBalance(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	seedAccount(t, repo, &models.Account{TelegramUserID: 42, Balance: 1.5})

	t.Run("credit", func(t *testing.T) {
		newBalance, err := svc.AddBalance(ctx, 42, 0.25)
		require.NoError(t, err)
		assert.InDelta(t, 1.75, newBalance, 1e-9)
	})

	t.Run("rounded to 6 decimals", func(t *testing.T) {
		newBalance, err := svc.AddBalance(ctx, 42, 0.0000004)
		require.NoError(t, err)
		assert.InDelta(t, 1.75, newBalance, 1e-9)
	})

	t.Run("debit clamps at zero", func(t *testing.T) {
		newBalance, err := svc.AddBalance(ctx, 42, -100)
		require.NoError(t, err)
		assert.Zero(t, newBalance)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.AddBalance(ctx, 999, 1)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSaveWallet(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	seedAccount(t, repo, &models.Account{TelegramUserID: 42})

	// A syntactically valid user-friendly TON address.
	valid := address.NewAddress(0, 0, make([]byte, 32)).String()

	account, err := svc.SaveWallet(ctx, 42, valid)
	require.NoError(t, err)
	assert.Equal(t, valid, account.Wallets)

	stored, err := repo.GetByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, valid, stored.Wallets)

	t.Run("rejects a malformed address", func(t *testing.T) {
		_, err := svc.SaveWallet(ctx, 42, "not-a-ton-address")
		assert.ErrorIs(t, err, ErrInvalidWallet)
	})

	t.Run("replaces the previous wallet", func(t *testing.T) {
		other := address.NewAddress(0, 0, append(make([]byte, 31), 1)).String()
		account, err := svc.SaveWallet(ctx, 42, other)
		require.NoError(t, err)
		assert.Equal(t, other, account.Wallets)
	})
}

func TestActivateBooster(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	seedAccount(t, repo, &models.Account{TelegramUserID: 42, ProBooster: 2})

	booster, count, err := svc.ActivateBooster(ctx, 42, "pro_booster")
	require.NoError(t, err)
	assert.Equal(t, models.BoosterPro, booster)
	assert.Equal(t, 3, count)

	// Other counters stay untouched.
	stored, err := repo.GetByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ProBooster)
	assert.Zero(t, stored.MiniBooster)

	t.Run("unknown booster type", func(t *testing.T) {
		_, _, err := svc.ActivateBooster(ctx, 42, "turbo_booster")
		assert.ErrorIs(t, err, models.ErrUnknownBooster)
	})
}

func TestWatchAdReward(t *testing.T) {
	ctx := context.Background()

	t.Run("base reward", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		svc := NewUserService(repo, nil)
		seedAccount(t, repo, &models.Account{TelegramUserID: 42, Balance: 1, TotalAdsWatched: 10, WeeklyAdsWatched: 3})

		account, reward, err := svc.WatchAdReward(ctx, 42)
		require.NoError(t, err)
		assert.InDelta(t, AdReward, reward, 1e-9)
		assert.InDelta(t, 1.01, account.Balance, 1e-9)
		assert.Equal(t, 11, account.TotalAdsWatched)
		assert.Equal(t, 4, account.WeeklyAdsWatched)
	})

	t.Run("boosted reward", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		svc := NewUserService(repo, nil)
		seedAccount(t, repo, &models.Account{TelegramUserID: 42, HasBoost: true})

		account, reward, err := svc.WatchAdReward(ctx, 42)
		require.NoError(t, err)
		assert.InDelta(t, AdRewardBoosted, reward, 1e-9)
		assert.InDelta(t, 0.03, account.Balance, 1e-9)
	})
}
