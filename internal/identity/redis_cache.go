package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/giftcard_vault/internal/models"
)

const (
	CacheTTL = 5 * time.Minute

	keyByID       = "identity:id:"
	keyByUsername = "identity:username:"
)

// cachedUser mirrors models.User minus the password hash.
type cachedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedisCache keeps users under two keys, one per lookup path.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: CacheTTL}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (c *RedisCache) ByID(ctx context.Context, id string) (*models.User, error) {
	return c.get(ctx, keyByID+id)
}

func (c *RedisCache) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.get(ctx, keyByUsername+username)
}

func (c *RedisCache) Put(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(cachedUser{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		return err
	}

	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyByID+u.ID, data, c.ttl)
		p.Set(ctx, keyByUsername+u.Username, data, c.ttl)
		return nil
	})
	return err
}

func (c *RedisCache) get(ctx context.Context, key string) (*models.User, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, err
	}
	return &models.User{
		ID:        cu.ID,
		Username:  cu.Username,
		Role:      cu.Role,
		CreatedAt: cu.CreatedAt,
	}, nil
}
