package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.PaymentRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Record(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (payload, telegram_user_id, item_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		payment.Payload, payment.TelegramUserID, payment.ItemID, payment.Amount,
	).Scan(&payment.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicatePayment
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}

	return nil
}
