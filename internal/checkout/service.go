package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/config"
	"github.com/vasiliy-maslov/storefront/internal/order"
	"github.com/vasiliy-maslov/storefront/internal/payment"
)

var hundred = decimal.NewFromInt(100)

type Service interface {
	CreateSession(ctx context.Context, cart []order.Line) (*payment.Session, error)
	Confirm(ctx context.Context, sessionID string, customer order.Customer) (*order.Order, error)
}

type service struct {
	catalog  order.Catalog
	gateway  payment.Gateway
	ledger   order.Service
	cfg      config.PaymentConfig
	validate *validator.Validate
}

func NewService(catalog order.Catalog, gateway payment.Gateway, ledger order.Service, cfg config.PaymentConfig) Service {
	return &service{
		catalog:  catalog,
		gateway:  gateway,
		ledger:   ledger,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// CreateSession prices cart against the catalog and opens a payment
// session. Nothing is persisted here.
func (s *service) CreateSession(ctx context.Context, cart []order.Line) (*payment.Session, error) {
	lines, err := order.MergeLines(cart)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("checkout: failed to load products")
		return nil, err
	}
	if missing := order.MissingIDs(ids, products); len(missing) > 0 {
		log.Warn().Ints64("product_ids", missing).Msg("checkout: cart references unknown products")
		return nil, order.UnknownProducts(missing)
	}

	cartRecord := EncodeCart(lines)
	if len(cartRecord) > maxCartMetadataLength {
		return nil, apperr.Validation("cart has too many distinct products")
	}

	params := payment.CreateSessionParams{
		Lines:      make([]payment.LineItem, 0, len(lines)),
		Currency:   s.cfg.Currency,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
		Metadata:   map[string]string{cartMetadataKey: cartRecord},
	}
	for _, l := range lines {
		p := products[l.ProductID]
		params.Lines = append(params.Lines, payment.LineItem{
			Name:       p.Name,
			UnitAmount: MinorUnits(p.Price),
			Quantity:   int64(l.Quantity),
		})
	}

	session, err := s.gateway.CreateSession(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("checkout: payment session creation failed")
		return nil, fmt.Errorf("%w: %w", apperr.ErrPaymentSession, err)
	}

	log.Info().Str("session_id", session.ID).Int("lines", len(lines)).Msg("Checkout session created")
	return session, nil
}

// Confirm records the order for a paid session. The cart is taken from the
// session metadata, never from the caller, and each line is recorded at the
// name and price the processor billed.
func (s *service) Confirm(ctx context.Context, sessionID string, customer order.Customer) (*order.Order, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperr.Validation("sessionId is required")
	}
	customer = order.NormalizeCustomer(customer)
	if err := order.ValidateCustomer(s.validate, customer); err != nil {
		return nil, err
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			log.Warn().Str("session_id", sessionID).Msg("checkout: confirm for unknown session")
		} else {
			log.Error().Err(err).Str("session_id", sessionID).Msg("checkout: failed to fetch payment session")
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrPaymentSession, err)
	}
	if !session.Paid {
		log.Warn().Str("session_id", sessionID).Msg("checkout: confirm for unpaid session")
		return nil, fmt.Errorf("%w: payment not completed", apperr.ErrPaymentSession)
	}

	lines, err := DecodeCart(session.Metadata[cartMetadataKey])
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("checkout: payment session carries no usable cart")
		return nil, fmt.Errorf("%w: %w", apperr.ErrPaymentSession, err)
	}
	if err := attachCharges(lines, session.Lines); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("checkout: payment session lines do not match its cart")
		return nil, fmt.Errorf("%w: %w", apperr.ErrPaymentSession, err)
	}

	return s.ledger.Create(ctx, order.CreateInput{
		CheckoutSessionID: session.ID,
		Customer:          customer,
		Lines:             lines,
	})
}

// attachCharges pairs cart lines with the billed lines, which share the
// order CreateSession submitted them in.
func attachCharges(lines []order.Line, billed []payment.LineItem) error {
	if len(lines) != len(billed) {
		return fmt.Errorf("cart has %d lines, session bills %d", len(lines), len(billed))
	}
	for i := range lines {
		if int64(lines[i].Quantity) != billed[i].Quantity {
			return fmt.Errorf("quantity mismatch for product %d", lines[i].ProductID)
		}
		lines[i].Charged = &order.Charge{
			Name:      billed[i].Name,
			UnitPrice: FromMinorUnits(billed[i].UnitAmount),
		}
	}
	return nil
}

// MinorUnits converts a price to the smallest currency unit, truncating
// toward zero.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Truncate(0).IntPart()
}

func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
