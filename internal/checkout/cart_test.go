package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/checkout"
	"github.com/vasiliy-maslov/storefront/internal/order"
)

func TestCartRecord(t *testing.T) {
	lines := []order.Line{{ProductID: 12, Quantity: 3}, {ProductID: 4, Quantity: 1}}

	encoded := checkout.EncodeCart(lines)
	assert.Equal(t, "12:3,4:1", encoded)

	decoded, err := checkout.DecodeCart(encoded)
	require.NoError(t, err)
	assert.Equal(t, lines, decoded)
}

func TestDecodeCart_Malformed(t *testing.T) {
	for _, raw := range []string{"", "  ", "12", "a:1", "1:b", "1:2,"} {
		_, err := checkout.DecodeCart(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
