package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"kaizen/internal/domain/model"
	repo "kaizen/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductFieldsはid/created_at以外の全フィールド。更新は丸ごと置き換え。
type ProductFields struct {
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// AdminProductUsecaseは管理者だけが呼ぶカタログのミューテーション。
type AdminProductUsecase struct {
	productRepo repo.ProductRepository
	index       repo.ProductIndex
	idGen       IDGenerator
	clock       Clock
	logger      zerolog.Logger
}

// DI
func NewAdminProductUsecase(
	productRepo repo.ProductRepository,
	index repo.ProductIndex,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo: productRepo,
		index:       index,
		idGen:       idGen,
		clock:       clock,
		logger:      logger,
	}
}

// editor側でも検証するが、リポジトリ直前の防衛として再検証する。
func validateFields(f ProductFields) (ProductFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	if f.Name == "" {
		return f, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if f.Description == "" {
		return f, NewHTTPError(http.StatusBadRequest, "description required")
	}
	if f.Price.IsNegative() {
		return f, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	return f, nil
}

func (u *AdminProductUsecase) Create(ctx context.Context, f ProductFields) (model.Product, error) {
	f, err := validateFields(f)
	if err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.idGen.NewID(),
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		CreatedAt:   u.clock.Now(),
	})
	if err != nil {
		u.logger.Error().Err(err).Msg("create product failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.applyIndex(ctx, created)
	return created, nil
}

func (u *AdminProductUsecase) Update(ctx context.Context, id string, f ProductFields) (model.Product, error) {
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	f, err := validateFields(f)
	if err != nil {
		return model.Product{}, err
	}

	updated, err := u.productRepo.Update(ctx, model.Product{
		ID:          id,
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		ImageURL:    f.ImageURL,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Error().Err(err).Str("product_id", id).Msg("update product failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.applyIndex(ctx, updated)
	return updated, nil
}

func (u *AdminProductUsecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Error().Err(err).Str("product_id", id).Msg("delete product failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.index.Evict(ctx, id); err != nil {
		u.logger.Warn().Err(err).Str("product_id", id).Msg("product index evict failed")
	}
	return nil
}

// 索引は補助なので失敗してもミューテーション自体は成功扱い。
func (u *AdminProductUsecase) applyIndex(ctx context.Context, p model.Product) {
	if err := u.index.Apply(ctx, p); err != nil {
		u.logger.Warn().Err(err).Str("product_id", p.ID).Msg("product index apply failed")
	}
}
