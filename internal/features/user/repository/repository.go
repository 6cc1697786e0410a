package repository

import (
	"context"
	"errors"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
)

var (
	// ErrUserNotFound is the expected "no row" outcome of lookups, distinct
	// from infrastructure failures.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists reports a unique-key conflict on insert. Callers
	// racing on first authentication recover by re-fetching.
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	GetByTelegramID(ctx context.Context, id int64) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error

	UpdateAvatar(ctx context.Context, id int64, avatar string) error
	UpdateWallet(ctx context.Context, id int64, wallet string) error
	UpdateBalance(ctx context.Context, id int64, balance float64) error

	// UpdateAdStats writes the post-reward balance and ad counters.
	UpdateAdStats(ctx context.Context, id int64, balance float64, total, weekly int) error

	// UpdateReferralStats writes the post-credit referral counters and balance.
	UpdateReferralStats(ctx context.Context, id int64, count int, earned, balance float64) error

	UpdateBoosterCount(ctx context.Context, id int64, booster models.Booster, count int) error
	SetAdBoost(ctx context.Context, id int64) error
}
