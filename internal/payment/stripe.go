package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates and reads Stripe Checkout sessions.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway uses the default Stripe backends when backends is nil.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

func (g *StripeGateway) CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for _, line := range p.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Error().Err(err).Int("lines", len(p.Lines)).Msg("stripe: failed to create checkout session")
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return fromStripe(s), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrSessionNotFound
		}
		log.Error().Err(err).Str("session_id", id).Msg("stripe: failed to retrieve checkout session")
		return nil, fmt.Errorf("stripe: get checkout session: %w", err)
	}

	session := fromStripe(s)
	lines, err := g.lineItems(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("session_id", id).Msg("stripe: failed to list checkout session line items")
		return nil, fmt.Errorf("stripe: list checkout session line items: %w", err)
	}
	session.Lines = lines
	return session, nil
}

func (g *StripeGateway) lineItems(ctx context.Context, id string) ([]LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{Session: stripe.String(id)}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var lines []LineItem
	iter := g.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		line := LineItem{Name: li.Description, Quantity: li.Quantity}
		if li.Price != nil {
			line.UnitAmount = li.Price.UnitAmount
		}
		lines = append(lines, line)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:       s.ID,
		URL:      s.URL,
		Paid:     s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: s.Metadata,
	}
}
