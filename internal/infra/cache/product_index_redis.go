package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kaizen/internal/domain/model"
	repo "kaizen/internal/repository"

	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "product:"

// RedisProductIndexはid→商品JSONの索引。ミューテーションの戻り値を
// Applyで反映し、読み側はErrIndexMissでDBへフォールバックする。
type RedisProductIndex struct {
	rdb *redis.Client
	ttl time.Duration
}

// DI
func NewRedisProductIndex(rdb *redis.Client, ttl time.Duration) *RedisProductIndex {
	return &RedisProductIndex{rdb: rdb, ttl: ttl}
}

func (c *RedisProductIndex) Apply(ctx context.Context, p model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKeyPrefix+p.ID, data, c.ttl).Err()
}

func (c *RedisProductIndex) Find(ctx context.Context, id string) (model.Product, error) {
	data, err := c.rdb.Get(ctx, productKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Product{}, repo.ErrIndexMiss
	}
	if err != nil {
		return model.Product{}, err
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		// 壊れたエントリは捨ててミス扱い
		_ = c.rdb.Del(ctx, productKeyPrefix+id).Err()
		return model.Product{}, repo.ErrIndexMiss
	}
	return p, nil
}

func (c *RedisProductIndex) Evict(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, productKeyPrefix+id).Err()
}
