package product_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/product"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]product.Product), args.Error(1)
}

func TestProductService_Create_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := product.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*product.Product).ID = 42
		}).
		Return(nil).
		Once()

	created, err := svc.Create(context.Background(), product.CreateInput{
		Name:     "  Bead  ",
		Price:    "19.99",
		ImageURL: "https://img.example.com/bead.png",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Bead", created.Name)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("19.99")))
	require.NotNil(t, created.ImageURL)
	assert.Equal(t, "https://img.example.com/bead.png", *created.ImageURL)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "UTC", created.CreatedAt.Location().String())
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_BlankImageIsNil(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := product.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil).Once()

	created, err := svc.Create(context.Background(), product.CreateInput{Name: "Free sample", Price: "0", ImageURL: "   "})
	require.NoError(t, err)
	assert.Nil(t, created.ImageURL)
	assert.True(t, created.Price.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input product.CreateInput
	}{
		{name: "empty name", input: product.CreateInput{Name: "", Price: "1.00"}},
		{name: "blank name", input: product.CreateInput{Name: "   ", Price: "1.00"}},
		{name: "missing price", input: product.CreateInput{Name: "Bead"}},
		{name: "non-numeric price", input: product.CreateInput{Name: "Bead", Price: "abc"}},
		{name: "negative price", input: product.CreateInput{Name: "Bead", Price: "-0.01"}},
		{name: "too many decimals", input: product.CreateInput{Name: "Bead", Price: "1.00001"}},
		{name: "too large", input: product.CreateInput{Name: "Bead", Price: "10000000000"}},
		{name: "far too large", input: product.CreateInput{Name: "Bead", Price: "1e30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			svc := product.NewService(mockRepo)

			created, err := svc.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Nil(t, created)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_PriceBoundsAccepted(t *testing.T) {
	for _, price := range []string{"9999999999.9999", "0.0001", "2.50000"} {
		t.Run(price, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			svc := product.NewService(mockRepo)
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil).Once()

			created, err := svc.Create(context.Background(), product.CreateInput{Name: "Bead", Price: price})
			require.NoError(t, err)
			assert.True(t, created.Price.Equal(decimal.RequireFromString(price)))
		})
	}
}

func TestProductService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := product.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
		Return(apperr.Persistence("insert product", assert.AnError)).
		Once()

	created, err := svc.Create(context.Background(), product.CreateInput{Name: "Bead", Price: "1"})
	require.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Nil(t, created)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := product.NewService(mockRepo)

	mockRepo.On("Delete", mock.Anything, int64(7)).Return(product.ErrNotFound).Once()

	err := svc.Delete(context.Background(), 7)
	require.ErrorIs(t, err, product.ErrNotFound)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
