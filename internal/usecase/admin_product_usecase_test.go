package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kaizen/internal/domain/model"
	repo "kaizen/internal/repository"
	"kaizen/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	updated, _ := args.Get(0).(model.Product)
	return updated, args.Error(1)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductIndexMock struct{ mock.Mock }

func (m *ProductIndexMock) Apply(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductIndexMock) Find(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductIndexMock) Evict(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newAdminUsecase(pRepo *ProductRepoMock, index *ProductIndexMock) *usecase.AdminProductUsecase {
	return usecase.NewAdminProductUsecase(
		pRepo,
		index,
		&fixedIDGen{id: "11111111-1111-1111-1111-111111111111"},
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		zerolog.Nop(),
	)
}

func validFields() usecase.ProductFields {
	return usecase.ProductFields{
		Name:        "Floral Hoop",
		Price:       decimal.RequireFromString("59.90"),
		Description: "Hand-stitched floral hoop",
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("want HTTPError got %v", err)
	}
	assert.Equal(t, status, he.Status)
}

// =====================
// Create
// =====================

func TestAdminProductUsecase_Create_EmptyName(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	f := validFields()
	f.Name = "   "

	_, err := uc.Create(context.Background(), f)
	assertStatus(t, err, 400)

	// 検証で弾かれたらリポジトリまで行かない
	pRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminProductUsecase_Create_EmptyDescription(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	f := validFields()
	f.Description = ""

	_, err := uc.Create(context.Background(), f)
	assertStatus(t, err, 400)
	pRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminProductUsecase_Create_NegativePrice(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	f := validFields()
	f.Price = decimal.RequireFromString("-0.01")

	_, err := uc.Create(context.Background(), f)
	assertStatus(t, err, 400)
	pRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminProductUsecase_Create_Success(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	index := new(ProductIndexMock)
	uc := newAdminUsecase(pRepo, index)

	want := model.Product{
		ID:          "11111111-1111-1111-1111-111111111111",
		Name:        "Floral Hoop",
		Price:       decimal.RequireFromString("59.90"),
		Description: "Hand-stitched floral hoop",
		ImageURL:    "",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	pRepo.On("Create", mock.Anything, want).Return(want, nil)
	index.On("Apply", mock.Anything, want).Return(nil)

	got, err := uc.Create(ctx, validFields())
	assert.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "", got.ImageURL) // 画像なしは空文字
	pRepo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestAdminProductUsecase_Create_StoreError(t *testing.T) {
	pRepo := new(ProductRepoMock)
	index := new(ProductIndexMock)
	uc := newAdminUsecase(pRepo, index)

	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, errors.New("connection reset"))

	_, err := uc.Create(context.Background(), validFields())
	assertStatus(t, err, 500)
	index.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

// =====================
// Update
// =====================

func TestAdminProductUsecase_Update_NotFound(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	pRepo.On("Update", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Update(context.Background(), "missing-id", validFields())
	assertStatus(t, err, 404)
}

func TestAdminProductUsecase_Update_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	index := new(ProductIndexMock)
	uc := newAdminUsecase(pRepo, index)

	updated := model.Product{
		ID:          "p-1",
		Name:        "Floral Hoop",
		Price:       decimal.RequireFromString("59.90"),
		Description: "Hand-stitched floral hoop",
		ImageURL:    "https://cdn.example.com/a.jpg",
	}
	pRepo.On("Update", mock.Anything, mock.Anything).Return(updated, nil)
	index.On("Apply", mock.Anything, updated).Return(nil)

	f := validFields()
	f.ImageURL = "https://cdn.example.com/a.jpg"

	got, err := uc.Update(context.Background(), "p-1", f)
	assert.NoError(t, err)
	assert.Equal(t, updated, got)
	index.AssertExpectations(t)
}

func TestAdminProductUsecase_Update_EmptyID(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	_, err := uc.Update(context.Background(), "", validFields())
	assertStatus(t, err, 400)
	pRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// =====================
// Delete
// =====================

func TestAdminProductUsecase_Delete_NotFound(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	// 既に消えているidも黙殺せずNotFound
	pRepo.On("Delete", mock.Anything, "gone").Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), "gone")
	assertStatus(t, err, 404)
}

func TestAdminProductUsecase_Delete_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	index := new(ProductIndexMock)
	uc := newAdminUsecase(pRepo, index)

	pRepo.On("Delete", mock.Anything, "p-1").Return(nil)
	index.On("Evict", mock.Anything, "p-1").Return(nil)

	err := uc.Delete(context.Background(), "p-1")
	assert.NoError(t, err)
	pRepo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestAdminProductUsecase_Delete_StoreError(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newAdminUsecase(pRepo, new(ProductIndexMock))

	pRepo.On("Delete", mock.Anything, "p-1").Return(errors.New("timeout"))

	err := uc.Delete(context.Background(), "p-1")
	assertStatus(t, err, 500)
}
