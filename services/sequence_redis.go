package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const redisSequenceTTL = 48 * time.Hour

// RedisSequencer memakai INCR per (restaurant, hari). Tidak ikut transaksi SQL,
// jadi rollback order meninggalkan gap pada nomor urut.
type RedisSequencer struct {
	Client *redis.Client
	Prefix string
}

func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{Client: client, Prefix: "order_seq"}
}

func (s *RedisSequencer) key(restaurantID, day string) string {
	return fmt.Sprintf("%s:%s:%s", s.Prefix, restaurantID, day)
}

func (s *RedisSequencer) Next(ctx context.Context, _ *gorm.DB, restaurantID, day string) (int, error) {
	key := s.key(restaurantID, day)

	pipe := s.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, redisSequenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return int(incr.Val()), nil
}
