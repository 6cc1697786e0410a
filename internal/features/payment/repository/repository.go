package repository

import (
	"context"
	"errors"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/models"
)

// ErrDuplicatePayment reports that this invoice payload was already settled.
var ErrDuplicatePayment = errors.New("payment already recorded")

type PaymentRepository interface {
	Record(ctx context.Context, payment *models.Payment) error
}
