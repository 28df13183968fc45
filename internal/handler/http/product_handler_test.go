package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/auth"
	"github.com/vasiliy-maslov/storefront/internal/config"
	handler "github.com/vasiliy-maslov/storefront/internal/handler/http"
	"github.com/vasiliy-maslov/storefront/internal/product"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.CreateInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []int64) (map[int64]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]product.Product), args.Error(1)
}

func newProductRouter(t *testing.T, svc product.Service, exposeDetail bool) *chi.Mux {
	t.Helper()
	store, err := auth.NewStore(config.SessionConfig{SecretKey: "k", Store: "cookie", TTL: time.Hour}, false)
	require.NoError(t, err)
	sessions := auth.NewManager(store, auth.NewAuthenticator(config.AdminConfig{Password: "admin123"}), time.Hour)

	router := chi.NewRouter()
	handler.NewProductHandler(svc, sessions, exposeDetail).RegisterRoutes(router)
	return router
}

func TestProductHandler_List_Success(t *testing.T) {
	mockService := new(MockProductService)
	router := newProductRouter(t, mockService, false)

	imageURL := "https://img/bead.png"
	createdAt := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	mockService.On("List", mock.Anything).Return([]product.Product{
		{ID: 2, Name: "Bead", Price: decimal.RequireFromString("9.99"), ImageURL: &imageURL, CreatedAt: createdAt},
		{ID: 1, Name: "Thread", Price: decimal.RequireFromString("10"), CreatedAt: createdAt},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []handler.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := []handler.ProductResponse{
		{ID: 2, Name: "Bead", Price: "9.99", ImageURL: &imageURL, CreatedAt: createdAt},
		{ID: 1, Name: "Thread", Price: "10", CreatedAt: createdAt},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, rec.Body.String(), `"price":9.99`)
	mockService.AssertExpectations(t)
}

func TestProductHandler_List_PersistenceError(t *testing.T) {
	tests := []struct {
		name         string
		exposeDetail bool
	}{
		{"development shows detail", true},
		{"production hides detail", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			router := newProductRouter(t, mockService, tt.exposeDetail)

			mockService.On("List", mock.Anything).
				Return(nil, apperr.Persistence("list products", assert.AnError)).
				Once()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "internal server error", body["error"])

			detail, ok := body["detail"]
			assert.Equal(t, tt.exposeDetail, ok)
			if tt.exposeDetail {
				assert.Contains(t, detail, assert.AnError.Error())
			}
		})
	}
}

func TestProductHandler_Create_RequiresAdmin(t *testing.T) {
	mockService := new(MockProductService)
	router := newProductRouter(t, mockService, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
