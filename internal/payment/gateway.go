// Package payment is the narrow boundary to the hosted payment processor.
package payment

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("payment session not found")

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type CreateSessionParams struct {
	Lines      []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	ID       string
	URL      string
	Paid     bool
	Metadata map[string]string
	// Lines is what the session bills, in submission order. Only GetSession
	// fills it.
	Lines []LineItem
}

type Gateway interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
