package product_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/product"
	"github.com/vasiliy-maslov/storefront/internal/testutil"
)

func newProduct(name, price string, createdAt time.Time) *product.Product {
	return &product.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		CreatedAt: createdAt,
	}
}

func TestProductRepository_CreateAndList(t *testing.T) {
	repo := product.NewRepository(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := newProduct("Older", "1.50", base)
	newer := newProduct("Newer", "19.99", base.Add(time.Hour))
	sameTime := newProduct("Same time, higher id", "2", base.Add(time.Hour))

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, sameTime))
	assert.NotZero(t, older.ID)
	assert.Greater(t, newer.ID, older.ID)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, []string{"Same time, higher id", "Newer", "Older"},
		[]string{products[0].Name, products[1].Name, products[2].Name})
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, products[2].CreatedAt.Equal(base))
	assert.Nil(t, products[0].ImageURL)
}

func TestProductRepository_ListEmpty(t *testing.T) {
	repo := product.NewRepository(testutil.NewSQLiteDB(t))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_Delete(t *testing.T) {
	repo := product.NewRepository(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	p := newProduct("Bead", "3.00", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	require.ErrorIs(t, repo.Delete(ctx, p.ID), product.ErrNotFound)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_GetByIDs(t *testing.T) {
	repo := product.NewRepository(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	imageURL := "https://img.example.com/a.png"
	a := newProduct("A", "1.25", time.Now().UTC())
	a.ImageURL = &imageURL
	b := newProduct("B", "2.50", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	found, err := repo.GetByIDs(ctx, []int64{a.ID, b.ID, 9999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "A", found[a.ID].Name)
	require.NotNil(t, found[a.ID].ImageURL)
	assert.Equal(t, imageURL, *found[a.ID].ImageURL)
	assert.True(t, found[b.ID].Price.Equal(decimal.RequireFromString("2.5")))
	_, ok := found[9999]
	assert.False(t, ok)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
