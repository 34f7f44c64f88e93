package usecase

import (
	"context"
	"errors"
	"net/http"

	"kaizen/internal/domain/model"
	repo "kaizen/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogUsecaseは誰でも読める公開カタログ。
type CatalogUsecase struct {
	productRepo repo.ProductRepository
	index       repo.ProductIndex
	logger      zerolog.Logger
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	index repo.ProductIndex,
	logger zerolog.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo: productRepo,
		index:       index,
		logger:      logger,
	}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// 新着順の全件。毎回ストアから取り直す。
func (u *CatalogUsecase) ListProducts(ctx context.Context) (ProductListOutput, error) {
	items, err := u.productRepo.List(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("list products failed")
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.Product{}
	}
	return ProductListOutput{Items: items, Total: len(items)}, nil
}

// 詳細は索引を先に引き、ミスならDBから取って索引を埋め直す。
func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (model.Product, error) {
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if p, err := u.index.Find(ctx, id); err == nil {
		return p, nil
	} else if !errors.Is(err, repo.ErrIndexMiss) {
		u.logger.Warn().Err(err).Str("product_id", id).Msg("product index read failed")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Error().Err(err).Str("product_id", id).Msg("find product failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.index.Apply(ctx, p); err != nil {
		u.logger.Warn().Err(err).Str("product_id", id).Msg("product index apply failed")
	}
	return p, nil
}
