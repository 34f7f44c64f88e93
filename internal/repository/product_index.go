package repository

import (
	"context"
	"errors"

	"kaizen/internal/domain/model"
)

var ErrIndexMiss = errors.New("index miss")

// ProductIndexはid→Productの索引。各ミューテーションの戻り値を
// そのまま反映し、読み側はミス時にストアへフォールバックする。
type ProductIndex interface {
	Apply(ctx context.Context, p model.Product) error
	Find(ctx context.Context, id string) (model.Product, error)
	Evict(ctx context.Context, id string) error
}
