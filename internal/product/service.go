package product

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
)

const (
	maxNameLength = 256
	// Prices are stored as NUMERIC(14, 4): four fractional and ten integral digits.
	maxPriceScale = 4
)

var priceLimit = decimal.New(1, 10)

type Service interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if len(name) > maxNameLength {
		return nil, apperr.Validation("name must be at most %d characters", maxNameLength)
	}

	rawPrice := strings.TrimSpace(input.Price)
	if rawPrice == "" {
		return nil, apperr.Validation("price is required")
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, apperr.Validation("price must be a number")
	}
	if price.IsNegative() {
		return nil, apperr.Validation("price cannot be negative")
	}
	if !price.Truncate(maxPriceScale).Equal(price) {
		return nil, apperr.Validation("price cannot have more than %d decimal places", maxPriceScale)
	}
	if price.GreaterThanOrEqual(priceLimit) {
		return nil, apperr.Validation("price must be less than %s", priceLimit.String())
	}

	p := &Product{
		Name:      name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if imageURL := strings.TrimSpace(input.ImageURL); imageURL != "" {
		p.ImageURL = &imageURL
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("name", name).Msg("service: failed to create product")
		return nil, err
	}

	log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("Product created")
	return p, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

func (s *service) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}
