package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/auth/initdata"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository/memory"
)

const testBotToken = "7000000000:AAFakeTokenForUnitTestsOnly1234567890"

var testAuthDate = time.Unix(1700000000, 0)

func newTestService(repo repository.UserRepository) *authService {
	return &authService{
		repo:     repo,
		botToken: testBotToken,
		// One hour after the payloads are issued, well within the window.
		now: func() time.Time { return testAuthDate.Add(time.Hour) },
	}
}

// signedInitData builds a valid init-data payload for the given user blob
// and optional extra fields.
func signedInitData(t *testing.T, userJSON string, extra map[string]string) string {
	t.Helper()

	fields := initdata.Fields{
		"user":      userJSON,
		"auth_date": strconv.FormatInt(testAuthDate.Unix(), 10),
	}
	for k, v := range extra {
		fields[k] = v
	}
	fields["hash"] = initdata.Sign(fields, testBotToken)

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	return values.Encode()
}

func TestAuthenticateVerificationFailures(t *testing.T) {
	svc := newTestService(memory.NewMemoryRepository())
	ctx := context.Background()

	t.Run("empty init data", func(t *testing.T) {
		verdict, err := svc.Authenticate(ctx, "")
		require.NoError(t, err)
		assert.False(t, verdict.Valid)
		assert.Equal(t, ReasonMalformedInput, verdict.Reason)
	})

	t.Run("missing hash", func(t *testing.T) {
		verdict, err := svc.Authenticate(ctx, "user=%7B%22id%22%3A42%7D&auth_date=1700000000")
		require.NoError(t, err)
		assert.Equal(t, ReasonMissingField, verdict.Reason)
	})

	t.Run("missing user", func(t *testing.T) {
		verdict, err := svc.Authenticate(ctx, "auth_date=1700000000&hash=abcd")
		require.NoError(t, err)
		assert.Equal(t, ReasonMissingField, verdict.Reason)
	})

	t.Run("user is not JSON", func(t *testing.T) {
		raw := signedInitData(t, "{broken", nil)
		verdict, err := svc.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, ReasonInvalidUserPayload, verdict.Reason)
	})

	t.Run("signed with a different bot token", func(t *testing.T) {
		fields := initdata.Fields{
			"user":      `{"id":42,"first_name":"Ann"}`,
			"auth_date": strconv.FormatInt(testAuthDate.Unix(), 10),
		}
		fields["hash"] = initdata.Sign(fields, "1:not-the-configured-token")

		values := url.Values{}
		for k, v := range fields {
			values.Set(k, v)
		}

		verdict, err := svc.Authenticate(ctx, values.Encode())
		require.NoError(t, err)
		assert.Equal(t, ReasonHashMismatch, verdict.Reason)
	})

	t.Run("stale payload", func(t *testing.T) {
		stale := newTestService(memory.NewMemoryRepository())
		stale.now = func() time.Time { return testAuthDate.Add(24*time.Hour + time.Second) }

		raw := signedInitData(t, `{"id":42,"first_name":"Ann"}`, nil)
		verdict, err := stale.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, ReasonStale, verdict.Reason)
	})

	t.Run("exactly 24h old still passes", func(t *testing.T) {
		edge := newTestService(memory.NewMemoryRepository())
		edge.now = func() time.Time { return testAuthDate.Add(24 * time.Hour) }

		raw := signedInitData(t, `{"id":42,"first_name":"Ann"}`, nil)
		verdict, err := edge.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.True(t, verdict.Valid)
	})
}

func TestAuthenticateCreatesAccountOnce(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	raw := signedInitData(t, `{"id":42,"first_name":"Ann","last_name":"Lee","username":"ann"}`, nil)

	verdict, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.True(t, verdict.Valid)
	assert.True(t, verdict.NewlyCreated)

	acc := verdict.Account
	require.NotNil(t, acc)
	assert.Equal(t, int64(42), acc.TelegramUserID)
	assert.Equal(t, "Ann", acc.FirstName)
	assert.Equal(t, "Lee", acc.LastName)
	assert.Equal(t, "ann", acc.Username)
	assert.Zero(t, acc.Balance)
	assert.Zero(t, acc.TotalAdsWatched)
	assert.Zero(t, acc.ReferralsCount)
	assert.Empty(t, acc.Wallets)

	// Second authentication resolves to the same row without re-insertion.
	verdict2, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.True(t, verdict2.Valid)
	assert.False(t, verdict2.NewlyCreated)
	assert.Equal(t, acc.TelegramUserID, verdict2.Account.TelegramUserID)
	assert.Equal(t, acc.CreatedAt, verdict2.Account.CreatedAt)
}

func TestAuthenticateAvatarFill(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	// First auth without a photo leaves the avatar empty.
	raw := signedInitData(t, `{"id":42,"first_name":"Ann"}`, nil)
	verdict, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	assert.Nil(t, verdict.Account.Avatar)

	// Re-auth with a photo fills it.
	withPhoto := signedInitData(t, `{"id":42,"first_name":"Ann","photo_url":"https://t.me/a.jpg"}`, nil)
	verdict, err = svc.Authenticate(ctx, withPhoto)
	require.NoError(t, err)
	require.NotNil(t, verdict.Account.Avatar)
	assert.Equal(t, "https://t.me/a.jpg", *verdict.Account.Avatar)

	// A later, different photo never overwrites it.
	otherPhoto := signedInitData(t, `{"id":42,"first_name":"Ann","photo_url":"https://t.me/b.jpg"}`, nil)
	verdict, err = svc.Authenticate(ctx, otherPhoto)
	require.NoError(t, err)
	require.NotNil(t, verdict.Account.Avatar)
	assert.Equal(t, "https://t.me/a.jpg", *verdict.Account.Avatar)
}

func TestAuthenticateReferralCredit(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	// Referrer signs up first.
	referrer := signedInitData(t, `{"id":100,"first_name":"Ref"}`, nil)
	_, err := svc.Authenticate(ctx, referrer)
	require.NoError(t, err)

	// New user arrives with the referrer's code.
	referred := signedInitData(t, `{"id":200,"first_name":"New"}`, map[string]string{"start_param": "ref_100"})
	verdict, err := svc.Authenticate(ctx, referred)
	require.NoError(t, err)
	require.True(t, verdict.Valid)
	assert.True(t, verdict.NewlyCreated)

	credited, err := repo.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, credited.ReferralsCount)
	assert.InDelta(t, 0.05, credited.ReferralsEarned, 1e-9)
	assert.InDelta(t, 0.05, credited.Balance, 1e-9)

	// Re-authentication of the referred user credits nothing further.
	_, err = svc.Authenticate(ctx, referred)
	require.NoError(t, err)
	credited, err = repo.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, credited.ReferralsCount)
}

func TestAuthenticateReferralUnknownReferrer(t *testing.T) {
	repo := memory.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	raw := signedInitData(t, `{"id":200,"first_name":"New"}`, map[string]string{"start_param": "ref_999"})
	verdict, err := svc.Authenticate(ctx, raw)

	// A dangling referral code is a logged no-op, not a failure.
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.True(t, verdict.NewlyCreated)
}

// racingRepo makes the first lookup report not-found even when the row
// exists, reproducing two requests racing past the same lookup.
type racingRepo struct {
	repository.UserRepository
	raced bool
}

func (r *racingRepo) GetByTelegramID(ctx context.Context, id int64) (*models.Account, error) {
	if !r.raced {
		r.raced = true
		return nil, repository.ErrUserNotFound
	}
	return r.UserRepository.GetByTelegramID(ctx, id)
}

func TestAuthenticateInsertRaceRecovers(t *testing.T) {
	inner := memory.NewMemoryRepository()
	ctx := context.Background()

	// The competing request already inserted the row.
	require.NoError(t, inner.Create(ctx, &models.Account{TelegramUserID: 42, FirstName: "First"}))

	svc := newTestService(&racingRepo{UserRepository: inner})

	raw := signedInitData(t, `{"id":42,"first_name":"Second"}`, nil)
	verdict, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.True(t, verdict.Valid)

	// The winner's row is used; this request did not create anything.
	assert.False(t, verdict.NewlyCreated)
	assert.Equal(t, "First", verdict.Account.FirstName)
}

// failingRepo reports an infrastructure error on every lookup.
type failingRepo struct {
	repository.UserRepository
}

func (r *failingRepo) GetByTelegramID(ctx context.Context, id int64) (*models.Account, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticateStoreError(t *testing.T) {
	svc := newTestService(&failingRepo{memory.NewMemoryRepository()})

	raw := signedInitData(t, `{"id":42,"first_name":"Ann"}`, nil)
	verdict, err := svc.Authenticate(context.Background(), raw)

	require.Error(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonStoreError, verdict.Reason)
}
