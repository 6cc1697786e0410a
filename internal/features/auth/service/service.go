package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/auth/initdata"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
)

// ReferralBonus is credited to the referrer's balance and referral earnings
// for each attributed signup.
const ReferralBonus = 0.05

// Reason tags a failed verification outcome. Verification failures are
// expected, user-triggerable outcomes and never escalate; only
// ReasonStoreError is accompanied by a non-nil error.
type Reason string

const (
	ReasonMalformedInput     Reason = "malformed_input"
	ReasonMissingField       Reason = "missing_field"
	ReasonInvalidUserPayload Reason = "invalid_user_payload"
	ReasonHashMismatch       Reason = "hash_mismatch"
	ReasonStale              Reason = "stale"
	ReasonStoreError         Reason = "store_error"
)

// Verdict is the outcome of one authentication attempt.
type Verdict struct {
	Valid        bool
	Reason       Reason
	Account      *models.Account
	NewlyCreated bool
}

type AuthService interface {
	// Authenticate validates a raw init-data payload and, when it passes,
	// resolves the Telegram identity to an account, creating one on first
	// sight. The returned error is non-nil only for store failures.
	Authenticate(ctx context.Context, rawInitData string) (*Verdict, error)
}

type authService struct {
	repo     repository.UserRepository
	botToken string
	now      func() time.Time
}

func NewAuthService(repo repository.UserRepository, botToken string) AuthService {
	return &authService{
		repo:     repo,
		botToken: botToken,
		now:      time.Now,
	}
}

func (s *authService) Authenticate(ctx context.Context, rawInitData string) (*Verdict, error) {
	fields, err := initdata.Parse(rawInitData)
	if err != nil {
		return &Verdict{Reason: ReasonMalformedInput}, nil
	}

	// user/auth_date/hash must be present before any hashing happens.
	if _, err := fields.Hash(); err != nil {
		return &Verdict{Reason: ReasonMissingField}, nil
	}
	if _, err := fields.AuthDate(); err != nil {
		return &Verdict{Reason: ReasonMissingField}, nil
	}
	tgUser, err := fields.User()
	if err != nil {
		if errors.Is(err, initdata.ErrInvalidUserPayload) {
			return &Verdict{Reason: ReasonInvalidUserPayload}, nil
		}
		return &Verdict{Reason: ReasonMissingField}, nil
	}

	if err := fields.VerifySignature(s.botToken); err != nil {
		log.Warn().Int64("telegram_user_id", tgUser.ID).Msg("Init data hash mismatch")
		return &Verdict{Reason: ReasonHashMismatch}, nil
	}

	if err := fields.FreshAt(s.now()); err != nil {
		log.Warn().Int64("telegram_user_id", tgUser.ID).Msg("Init data is too old")
		return &Verdict{Reason: ReasonStale}, nil
	}

	return s.resolve(ctx, tgUser, fields.ReferralCode())
}

// resolve maps a verified Telegram identity to an account.
func (s *authService) resolve(ctx context.Context, tgUser initdata.User, referralCode string) (*Verdict, error) {
	account, err := s.repo.GetByTelegramID(ctx, tgUser.ID)
	switch {
	case err == nil:
		s.fillAvatar(ctx, account, tgUser)
		return &Verdict{Valid: true, Account: account}, nil

	case errors.Is(err, repository.ErrUserNotFound):
		return s.create(ctx, tgUser, referralCode)

	default:
		return &Verdict{Reason: ReasonStoreError}, fmt.Errorf("failed to find account: %w", err)
	}
}

func (s *authService) create(ctx context.Context, tgUser initdata.User, referralCode string) (*Verdict, error) {
	account := &models.Account{
		TelegramUserID: tgUser.ID,
		FirstName:      tgUser.FirstName,
		LastName:       tgUser.LastName,
		Username:       tgUser.Username,
		Avatar:         tgUser.PhotoURL,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		// Lost the first-authentication race: someone else inserted this
		// id after our lookup. The store's unique key is the arbiter, so
		// use the winning row.
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			existing, getErr := s.repo.GetByTelegramID(ctx, tgUser.ID)
			if getErr != nil {
				return &Verdict{Reason: ReasonStoreError}, fmt.Errorf("failed to re-fetch account after insert conflict: %w", getErr)
			}
			return &Verdict{Valid: true, Account: existing}, nil
		}
		return &Verdict{Reason: ReasonStoreError}, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().Int64("telegram_user_id", tgUser.ID).Msg("Account created")

	if referralCode != "" {
		s.creditReferrer(ctx, referralCode, tgUser.ID)
	}

	return &Verdict{Valid: true, Account: account, NewlyCreated: true}, nil
}

// creditReferrer attributes a new signup to the referrer named by the code.
// Best-effort: every failure is logged and swallowed.
func (s *authService) creditReferrer(ctx context.Context, referralCode string, newUserID int64) {
	referrerID, err := strconv.ParseInt(referralCode, 10, 64)
	if err != nil {
		log.Debug().Str("referral_code", referralCode).Msg("Referral code is not a telegram id")
		return
	}
	if referrerID == newUserID {
		return
	}

	referrer, err := s.repo.GetByTelegramID(ctx, referrerID)
	if err != nil {
		log.Warn().Err(err).Int64("referrer_id", referrerID).Msg("Referrer not found")
		return
	}

	newCount := referrer.ReferralsCount + 1
	newEarned := models.Round6(referrer.ReferralsEarned + ReferralBonus)
	newBalance := models.Round6(referrer.Balance + ReferralBonus)

	if err := s.repo.UpdateReferralStats(ctx, referrerID, newCount, newEarned, newBalance); err != nil {
		log.Error().Err(err).Int64("referrer_id", referrerID).Msg("Failed to credit referrer")
		return
	}

	log.Info().
		Int64("referrer_id", referrerID).
		Int64("referred_id", newUserID).
		Msg("Referral credited")
}

// fillAvatar sets the stored avatar when it is currently empty and the
// payload carries one. Never overwrites an existing avatar, and a failed
// update does not fail authentication.
func (s *authService) fillAvatar(ctx context.Context, account *models.Account, tgUser initdata.User) {
	if account.Avatar != nil || tgUser.PhotoURL == nil {
		return
	}

	if err := s.repo.UpdateAvatar(ctx, account.TelegramUserID, *tgUser.PhotoURL); err != nil {
		log.Warn().Err(err).Int64("telegram_user_id", account.TelegramUserID).Msg("Failed to update avatar")
		return
	}
	account.Avatar = tgUser.PhotoURL
}
