package payment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/payment"
)

func TestLocalGateway_RoundTrip(t *testing.T) {
	gw := payment.NewLocalGateway()
	ctx := context.Background()

	metadata := map[string]string{"cart": "3:2"}
	created, err := gw.CreateSession(ctx, payment.CreateSessionParams{
		Lines:      []payment.LineItem{{Name: "Bead", UnitAmount: 500, Quantity: 2}},
		Currency:   "usd",
		SuccessURL: "http://localhost:8080/success?session_id={CHECKOUT_SESSION_ID}",
		Metadata:   metadata,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "cs_local_"))
	assert.Equal(t, "http://localhost:8080/success?session_id="+created.ID, created.URL)

	metadata["cart"] = "mutated"

	fetched, err := gw.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Paid)
	assert.Equal(t, "3:2", fetched.Metadata["cart"])
	assert.Equal(t, []payment.LineItem{{Name: "Bead", UnitAmount: 500, Quantity: 2}}, fetched.Lines)
}

func TestLocalGateway_UnknownSession(t *testing.T) {
	_, err := payment.NewLocalGateway().GetSession(context.Background(), "cs_nope")
	require.ErrorIs(t, err, payment.ErrSessionNotFound)
}
