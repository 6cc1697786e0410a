package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
)

// Sender is the slice of the Bot API this service needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Service sends operational Telegram messages: withdrawal requests go to the
// user and the creator, confirmations to the user alone. Delivery is
// best-effort; failures are logged, never surfaced.
type Service struct {
	sender    Sender
	repo      repository.UserRepository
	creatorID int64
}

func New(sender Sender, repo repository.UserRepository, creatorID int64) *Service {
	return &Service{
		sender:    sender,
		repo:      repo,
		creatorID: creatorID,
	}
}

// WithdrawRequest carries what the frontend knows about a withdrawal.
type WithdrawRequest struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	Amount    float64 `json:"amount"`
}

// WithdrawRequested notifies the user and the creator about a new
// withdrawal request, enriching the creator message with account stats.
func (s *Service) WithdrawRequested(ctx context.Context, req WithdrawRequest) {
	userText := fmt.Sprintf(
		"✅ Withdrawal Request Received\n\n"+
			"Amount: %v USDT\n"+
			"Status: Processing\n\n"+
			"The funds will be sent within a week.",
		req.Amount,
	)
	if err := s.sender.SendMessage(ctx, req.UserID, userText); err != nil {
		log.Error().Err(err).Int64("user_id", req.UserID).Msg("Failed to notify user about withdrawal")
	}

	if s.creatorID == 0 {
		return
	}

	// Stats are decoration; a missing account must not block the notice.
	var account models.Account
	if stored, err := s.repo.GetByTelegramID(ctx, req.UserID); err == nil {
		account = *stored
	} else {
		log.Warn().Err(err).Int64("user_id", req.UserID).Msg("Could not load account stats for withdrawal notice")
	}

	username := req.Username
	if username == "" {
		username = "No username"
	}
	firstName := req.FirstName
	if firstName == "" {
		firstName = "Unknown"
	}

	creatorText := fmt.Sprintf(
		"══════════════════\n"+
			"🔄 NEW USDT WITHDRAWAL REQUEST\n"+
			"══════════════════\n\n"+
			"👤 User: %s\n"+
			"📱 Username: @%s\n"+
			"🆔 User ID: %d\n"+
			"💰 Amount: %v USDT\n\n"+
			"📊 USER STATISTICS:\n"+
			"📺 Total Ads Watched: %d\n"+
			"📈 Weekly Ads Watched: %d\n"+
			"👥 Referrals: %d\n"+
			"🎁 Referrals Earned: %.6f USDT\n\n"+
			"⏰ Time: %s",
		firstName, username, req.UserID, req.Amount,
		account.TotalAdsWatched, account.WeeklyAdsWatched,
		account.ReferralsCount, account.ReferralsEarned,
		time.Now().Format("2 January"),
	)
	if err := s.sender.SendMessage(ctx, s.creatorID, creatorText); err != nil {
		log.Error().Err(err).Msg("Failed to notify creator about withdrawal")
	}
}

// WithdrawConfirmation sends the short processing notice to the user alone.
func (s *Service) WithdrawConfirmation(ctx context.Context, userID int64, amount float64) {
	text := fmt.Sprintf(
		"✅ Withdrawal Request Received\n\n"+
			"Amount: %v USDT\n"+
			"Status: Processing\n"+
			"Your funds will be sent within 24 hours.",
		amount,
	)
	if err := s.sender.SendMessage(ctx, userID, text); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to send withdrawal confirmation")
	}
}
