package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
)

const accountColumns = `telegram_user_id, first_name, last_name, COALESCE(username, ''), avatar,
	COALESCE(wallets, ''), balance, total_ads_watched, weekly_ads_watched,
	referrals_count, referrals_earned, has_boost,
	mini_booster, basic_booster, advanced_booster, pro_booster, ultimate_booster, mega_booster,
	created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByTelegramID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM cryptopay WHERE telegram_user_id = $1`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return acc, nil
}

func (r *postgresRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO cryptopay (
			telegram_user_id, first_name, last_name, username, avatar, wallets,
			balance, total_ads_watched, weekly_ads_watched, referrals_count, referrals_earned
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.TelegramUserID, account.FirstName, account.LastName, account.Username,
		account.Avatar, account.Wallets,
		account.Balance, account.TotalAdsWatched, account.WeeklyAdsWatched,
		account.ReferralsCount, account.ReferralsEarned,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	query := `UPDATE cryptopay SET avatar = $2, updated_at = NOW() WHERE telegram_user_id = $1`
	return r.exec(ctx, query, id, avatar)
}

func (r *postgresRepository) UpdateWallet(ctx context.Context, id int64, wallet string) error {
	query := `UPDATE cryptopay SET wallets = $2, updated_at = NOW() WHERE telegram_user_id = $1`
	return r.exec(ctx, query, id, wallet)
}

func (r *postgresRepository) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	query := `UPDATE cryptopay SET balance = $2, updated_at = NOW() WHERE telegram_user_id = $1`
	return r.exec(ctx, query, id, balance)
}

func (r *postgresRepository) UpdateAdStats(ctx context.Context, id int64, balance float64, total, weekly int) error {
	query := `
		UPDATE cryptopay
		SET balance = $2, total_ads_watched = $3, weekly_ads_watched = $4, updated_at = NOW()
		WHERE telegram_user_id = $1
	`
	return r.exec(ctx, query, id, balance, total, weekly)
}

func (r *postgresRepository) UpdateReferralStats(ctx context.Context, id int64, count int, earned, balance float64) error {
	query := `
		UPDATE cryptopay
		SET referrals_count = $2, referrals_earned = $3, balance = $4, updated_at = NOW()
		WHERE telegram_user_id = $1
	`
	return r.exec(ctx, query, id, count, earned, balance)
}

func (r *postgresRepository) UpdateBoosterCount(ctx context.Context, id int64, booster models.Booster, count int) error {
	// Booster is a closed enum, so the column name is trusted.
	query := fmt.Sprintf(
		`UPDATE cryptopay SET %s = $2, updated_at = NOW() WHERE telegram_user_id = $1`,
		booster.Column(),
	)
	return r.exec(ctx, query, id, count)
}

func (r *postgresRepository) SetAdBoost(ctx context.Context, id int64) error {
	query := `UPDATE cryptopay SET has_boost = TRUE, updated_at = NOW() WHERE telegram_user_id = $1`
	return r.exec(ctx, query, id)
}

func (r *postgresRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		acc    models.Account
		avatar sql.NullString
	)
	err := row.Scan(
		&acc.TelegramUserID, &acc.FirstName, &acc.LastName, &acc.Username, &avatar,
		&acc.Wallets, &acc.Balance, &acc.TotalAdsWatched, &acc.WeeklyAdsWatched,
		&acc.ReferralsCount, &acc.ReferralsEarned, &acc.HasBoost,
		&acc.MiniBooster, &acc.BasicBooster, &acc.AdvancedBooster,
		&acc.ProBooster, &acc.UltimateBooster, &acc.MegaBooster,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if avatar.Valid {
		acc.Avatar = &avatar.String
	}
	return &acc, nil
}
