package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/product"
)

// Catalog is the read side of the product store the ledger prices against.
type Catalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]product.Product, error)
}

// Publisher announces recorded orders to downstream consumers.
type Publisher interface {
	PublishOrderRecorded(ctx context.Context, o *Order) error
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}

type service struct {
	repo         Repository
	catalog      Catalog
	publisher    Publisher
	shippingCost decimal.Decimal
	validate     *validator.Validate
}

// NewService builds the order ledger. publisher may be nil.
func NewService(repo Repository, catalog Catalog, shippingCost decimal.Decimal, publisher Publisher) Service {
	return &service{
		repo:         repo,
		catalog:      catalog,
		publisher:    publisher,
		shippingCost: shippingCost,
		validate:     validator.New(),
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	sessionID := strings.TrimSpace(input.CheckoutSessionID)
	if sessionID == "" {
		return nil, apperr.Validation("checkout session id is required")
	}

	customer := NormalizeCustomer(input.Customer)
	if err := ValidateCustomer(s.validate, customer); err != nil {
		return nil, err
	}

	lines, err := MergeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("service: failed to load products for order")
		return nil, err
	}
	// Billed lines survive the product being deleted since checkout.
	var unknown []int64
	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok && l.Charged == nil {
			unknown = append(unknown, l.ProductID)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		log.Warn().Str("session_id", sessionID).Ints64("product_ids", unknown).Msg("service: order references unknown products")
		return nil, UnknownProducts(unknown)
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, apperr.Persistence("generate order id", err)
	}

	o := &Order{
		ID:                orderID,
		CheckoutSessionID: sessionID,
		Customer:          customer,
		ShippingCost:      s.shippingCost,
		CreatedAt:         time.Now().UTC(),
		Items:             make([]Item, 0, len(lines)),
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		itemID, err := uuid.NewV4()
		if err != nil {
			return nil, apperr.Persistence("generate order item id", err)
		}
		item := Item{ID: itemID, Quantity: l.Quantity}
		if p, ok := products[l.ProductID]; ok {
			productID := p.ID
			item.ProductID = &productID
			item.ProductName = p.Name
			item.UnitPrice = p.Price
		}
		if l.Charged != nil {
			item.ProductName = l.Charged.Name
			item.UnitPrice = l.Charged.UnitPrice
		}
		o.Items = append(o.Items, item)
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.Subtotal = subtotal.Round(2)
	o.Total = o.Subtotal.Add(o.ShippingCost)

	if err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, ErrAlreadyConfirmed) {
			log.Warn().Str("session_id", sessionID).Msg("service: order already recorded for session")
		} else {
			log.Error().Err(err).Stringer("order_id", o.ID).Str("session_id", sessionID).Msg("service: failed to persist order")
		}
		return nil, err
	}

	log.Info().Stringer("order_id", o.ID).Str("session_id", sessionID).Str("total", o.Total.StringFixed(2)).Msg("Order recorded")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderRecorded(ctx, o); err != nil {
			log.Warn().Err(err).Stringer("order_id", o.ID).Msg("service: failed to publish order.recorded event")
		}
	}

	return o, nil
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, err
	}
	return orders, nil
}

// NormalizeCustomer trims surrounding whitespace from every field.
func NormalizeCustomer(c Customer) Customer {
	return Customer{
		FullName:     strings.TrimSpace(c.FullName),
		Email:        strings.TrimSpace(c.Email),
		Phone:        strings.TrimSpace(c.Phone),
		AddressLine1: strings.TrimSpace(c.AddressLine1),
		AddressLine2: strings.TrimSpace(c.AddressLine2),
		City:         strings.TrimSpace(c.City),
		PostalCode:   strings.TrimSpace(c.PostalCode),
		Country:      strings.TrimSpace(c.Country),
	}
}

// ValidateCustomer reports the first failing customer field as a validation error.
func ValidateCustomer(v *validator.Validate, c Customer) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validation("customer field %s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return apperr.Validation("invalid customer: %v", err)
}

// MergeLines rejects an empty cart or quantities outside 1..MaxQuantity and
// sums quantities of repeated products, keeping first-seen order. The
// summed quantity is held to the same bound.
func MergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	merged := make([]Line, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperr.Validation("quantity for product %d must be positive", l.ProductID)
		}
		if l.Quantity > MaxQuantity {
			return nil, apperr.Validation("quantity for product %d cannot exceed %d", l.ProductID, MaxQuantity)
		}
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			if merged[i].Quantity > MaxQuantity {
				return nil, apperr.Validation("quantity for product %d cannot exceed %d", l.ProductID, MaxQuantity)
			}
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// MissingIDs returns the ids absent from found, sorted and de-duplicated.
func MissingIDs(ids []int64, found map[int64]product.Product) []int64 {
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

// UnknownProducts is the validation error naming product ids absent from the catalog.
func UnknownProducts(ids []int64) error {
	return apperr.Validation("unknown product ids: %s", joinIDs(ids))
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
