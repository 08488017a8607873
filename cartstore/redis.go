package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront/models"
)

// RedisStore keeps each cart as a JSON blob under "cart:<customerId>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore accepts either a redis:// URL or a plain "host:port" address
func NewRedisStore(addr string) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}
	return &RedisStore{client: redis.NewClient(opts)}
}

func cartKey(customerID string) string {
	return "cart:" + customerID
}

func (s *RedisStore) FindByCustomer(ctx context.Context, customerID string) (*models.Cart, error) {
	val, err := s.client.Get(ctx, cartKey(customerID)).Result()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, fmt.Errorf("decode cart data: %w", err)
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart data: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.CustomerID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByCustomer(ctx context.Context, customerID string) error {
	deleted, err := s.client.Del(ctx, cartKey(customerID)).Result()
	if err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	if deleted == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx).Err()
}
