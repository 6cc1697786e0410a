package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/repository"
	userrepo "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/platform/telegram"
)

var (
	ErrUnknownItem    = errors.New("unknown item_id")
	ErrInvalidPayload = errors.New("invalid payload format")
	ErrUserNotFound   = errors.New("user not found")
)

// InvoiceCreator is the slice of the Bot API this service needs.
type InvoiceCreator interface {
	CreateInvoiceLink(ctx context.Context, params telegram.InvoiceParams) (string, error)
}

// Receipt reports the result of a verified payment.
type Receipt struct {
	Duplicate        bool   `json:"duplicate,omitempty"`
	BoostActivated   bool   `json:"boost_activated,omitempty"`
	BoosterPurchased string `json:"booster_purchased,omitempty"`
	BoosterCount     int    `json:"booster_count,omitempty"`
}

type PaymentService interface {
	// CreateInvoice returns a Stars payment link for one catalog item.
	CreateInvoice(ctx context.Context, userID int64, itemID string) (string, error)

	// VerifyPayment settles a paid invoice: records the payment (payload
	// dedup) and applies the purchase to the account.
	VerifyPayment(ctx context.Context, userID int64, payload string) (*Receipt, error)
}

type paymentService struct {
	payments repository.PaymentRepository
	users    userrepo.UserRepository
	invoices InvoiceCreator
}

func NewPaymentService(payments repository.PaymentRepository, users userrepo.UserRepository, invoices InvoiceCreator) PaymentService {
	return &paymentService{
		payments: payments,
		users:    users,
		invoices: invoices,
	}
}

func (s *paymentService) CreateInvoice(ctx context.Context, userID int64, itemID string) (string, error) {
	item, ok := models.Catalog[itemID]
	if !ok {
		return "", ErrUnknownItem
	}

	payload, err := json.Marshal(models.InvoicePayload{
		ID:     uuid.NewString(),
		ItemID: item.ID,
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal invoice payload: %w", err)
	}

	link, err := s.invoices.CreateInvoiceLink(ctx, telegram.InvoiceParams{
		Title:       item.Title,
		Description: item.Description,
		Payload:     string(payload),
		Currency:    item.Currency,
		Amount:      item.Price,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create invoice link: %w", err)
	}

	log.Info().Int64("telegram_user_id", userID).Str("item_id", item.ID).Msg("Invoice created")
	return link, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, userID int64, payload string) (*Receipt, error) {
	var decoded models.InvoicePayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	item, ok := models.Catalog[decoded.ItemID]
	if !ok {
		return nil, ErrUnknownItem
	}

	account, err := s.users.GetByTelegramID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	err = s.payments.Record(ctx, &models.Payment{
		Payload:        payload,
		TelegramUserID: userID,
		ItemID:         item.ID,
		Amount:         item.Price,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return &Receipt{Duplicate: true}, nil
		}
		return nil, err
	}

	receipt := &Receipt{}
	switch {
	case item.AdBoost:
		// Setting the flag again on a re-purchase is harmless.
		if err := s.users.SetAdBoost(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to activate ad boost: %w", err)
		}
		receipt.BoostActivated = true

	default:
		newCount := account.BoosterCount(item.Booster) + 1
		if err := s.users.UpdateBoosterCount(ctx, userID, item.Booster, newCount); err != nil {
			return nil, fmt.Errorf("failed to apply booster purchase: %w", err)
		}
		receipt.BoosterPurchased = item.ID
		receipt.BoosterCount = newCount
	}

	log.Info().
		Int64("telegram_user_id", userID).
		Str("item_id", item.ID).
		Msg("Payment processed")
	return receipt, nil
}
