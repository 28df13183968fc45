package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	ImageURL  *string         `db:"image_url"`
	CreatedAt time.Time       `db:"created_at"`
}

// CreateInput carries raw admin input; Price is parsed and checked by the service.
type CreateInput struct {
	Name     string
	Price    string
	ImageURL string
}
