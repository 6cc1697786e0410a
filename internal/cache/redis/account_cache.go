package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
)

// AccountCache keeps recently authenticated accounts in Redis so profile
// reads skip Postgres. All methods are best-effort from the caller's view.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) key(id int64) string { return fmt.Sprintf("account:%d", id) }

// Set stores the account under its Telegram id.
func (c *AccountCache) Set(ctx context.Context, account *models.Account) error {
	b, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(account.TelegramUserID), b, c.ttl).Err()
}

// GetByID returns the cached account, or (nil, nil) on a miss.
func (c *AccountCache) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	b, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var account models.Account
	if err := json.Unmarshal(b, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Invalidate removes the cached entry after a write to the store.
func (c *AccountCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
