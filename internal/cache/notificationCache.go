package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// NotificationCache keeps two small things in redis: the delivery status
// of recently touched notifications (read path optimization) and the
// per-user daily-alert marker the staleness scan consults as a fast path.
// Redis being down is never fatal here; the store stays authoritative.
type NotificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationCache(client *redis.Client, ttl time.Duration) *NotificationCache {
	return &NotificationCache{client: client, ttl: ttl}
}

func statusKey(id int64) string {
	return fmt.Sprintf("notificacao:status:%d", id)
}

func alertKey(userID int64, day string) string {
	return fmt.Sprintf("alerta:diario:%d:%s", userID, day)
}

func (c *NotificationCache) SetStatus(ctx context.Context, id int64, status entity.NotificationStatus) error {
	return c.client.Set(ctx, statusKey(id), string(status), c.ttl).Err()
}

// GetStatus returns "" without error on a cache miss.
func (c *NotificationCache) GetStatus(ctx context.Context, id int64) (entity.NotificationStatus, error) {
	val, err := c.client.Get(ctx, statusKey(id)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return entity.NotificationStatus(val), nil
}

func (c *NotificationCache) DeleteStatus(ctx context.Context, id int64) error {
	return c.client.Del(ctx, statusKey(id)).Err()
}

// MarkAlertedToday records that the user already got a staleness alert on
// the given day. Returns false when the marker was already set.
func (c *NotificationCache) MarkAlertedToday(ctx context.Context, userID int64, day time.Time) (bool, error) {
	key := alertKey(userID, day.Format("2006-01-02"))
	return c.client.SetNX(ctx, key, "1", 48*time.Hour).Result()
}

func (c *NotificationCache) AlertedToday(ctx context.Context, userID int64, day time.Time) (bool, error) {
	key := alertKey(userID, day.Format("2006-01-02"))
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
