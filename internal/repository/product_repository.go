package repository

import (
	"context"
	"errors"

	"kaizen/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// created_at降順。呼ぶたびにストアから取り直す。
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// id/created_at以外の全フィールドをまとめて置き換える。
	Update(ctx context.Context, p model.Product) (model.Product, error)
	// 物理削除。存在しないidはErrNotFound。
	Delete(ctx context.Context, id string) error
}
