package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vasiliy-maslov/storefront/internal/order"
)

const (
	cartMetadataKey = "cart"
	// Processor metadata values are capped at 500 characters.
	maxCartMetadataLength = 500
)

// EncodeCart renders lines as "<id>:<qty>,..." for the payment session metadata.
func EncodeCart(lines []order.Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, strconv.FormatInt(l.ProductID, 10)+":"+strconv.Itoa(l.Quantity))
	}
	return strings.Join(parts, ",")
}

func DecodeCart(s string) ([]order.Line, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty cart record")
	}

	var lines []order.Line
	for _, part := range strings.Split(s, ",") {
		rawID, rawQty, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("malformed cart entry %q", part)
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed product id in %q: %w", part, err)
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, fmt.Errorf("malformed quantity in %q: %w", part, err)
		}
		lines = append(lines, order.Line{ProductID: id, Quantity: qty})
	}
	return lines, nil
}
