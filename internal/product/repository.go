package product

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/db"
)

var ErrNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type sqlRepository struct {
	db *db.DB
}

func NewRepository(store *db.DB) Repository {
	return &sqlRepository{db: store}
}

func (r *sqlRepository) List(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, price, image_url, created_at
		FROM products
		ORDER BY created_at DESC, id DESC
	`

	products := make([]Product, 0)
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, apperr.Persistence("list products", err)
	}
	return products, nil
}

func (r *sqlRepository) Create(ctx context.Context, p *Product) error {
	query := r.db.Rebind(`
		INSERT INTO products (name, price, image_url, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowxContext(ctx, query, p.Name, p.Price, p.ImageURL, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return apperr.Persistence("insert product", err)
	}
	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return apperr.Persistence("delete product", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete product", err)
	}
	if affected == 0 {
		log.Warn().Int64("product_id", id).Msg("repository: product not found for delete")
		return ErrNotFound
	}
	return nil
}

func (r *sqlRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	found := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, price, image_url, created_at FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, apperr.Persistence("build product lookup", err)
	}

	var products []Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, apperr.Persistence("lookup products", err)
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}
