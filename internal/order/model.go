package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the contact and shipping block captured with every order.
type Customer struct {
	FullName     string `db:"full_name" validate:"required,max=255"`
	Email        string `db:"email" validate:"required,email,max=255"`
	Phone        string `db:"phone" validate:"required,max=64"`
	AddressLine1 string `db:"address_line1" validate:"required,max=255"`
	AddressLine2 string `db:"address_line2" validate:"max=255"`
	City         string `db:"city" validate:"required,max=128"`
	PostalCode   string `db:"postal_code" validate:"required,max=32"`
	Country      string `db:"country" validate:"required,max=64"`
}

type Item struct {
	ID          uuid.UUID       `db:"id"`
	OrderID     uuid.UUID       `db:"order_id"`
	ProductID   *int64          `db:"product_id"`
	ProductName string          `db:"product_name"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Quantity    int             `db:"quantity"`
	Position    int             `db:"position"`
}

type Order struct {
	ID                uuid.UUID `db:"id"`
	CheckoutSessionID string    `db:"checkout_session_id"`
	Customer
	Subtotal     decimal.Decimal `db:"subtotal"`
	ShippingCost decimal.Decimal `db:"shipping_cost"`
	Total        decimal.Decimal `db:"total"`
	CreatedAt    time.Time       `db:"created_at"`
	Items        []Item          `db:"-"`
}

// MaxQuantity caps the units of one product in a single cart or order.
const MaxQuantity = 10000

// Line is one requested cart entry. Charged is set once the line has been
// billed; the ledger then records that name and price instead of the
// current catalog entry.
type Line struct {
	ProductID int64
	Quantity  int
	Charged   *Charge
}

// Charge is what the payment processor billed per unit for a line.
type Charge struct {
	Name      string
	UnitPrice decimal.Decimal
}

type CreateInput struct {
	CheckoutSessionID string
	Customer          Customer
	Lines             []Line
}
