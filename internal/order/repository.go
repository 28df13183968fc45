package order

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/db"
)

var ErrAlreadyConfirmed = fmt.Errorf("%w: checkout session already has an order", apperr.ErrConflict)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
}

type sqlRepository struct {
	db *db.DB
}

func NewRepository(store *db.DB) Repository {
	return &sqlRepository{db: store}
}

// Create writes the order row and all of its items in one transaction.
func (r *sqlRepository) Create(ctx context.Context, o *Order) (err error) {
	tx, beginErr := r.db.BeginTxx(ctx, nil)
	if beginErr != nil {
		return apperr.Persistence("begin transaction", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Stringer("order_id", o.ID).Msg("Panic recovered during order create, rolling back")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Stringer("order_id", o.ID).Msg("Transaction for order create failed, rolling back")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("Failed to rollback transaction")
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			log.Error().Err(commitErr).Stringer("order_id", o.ID).Msg("Failed to commit transaction")
			err = apperr.Persistence("commit order", commitErr)
		}
	}()

	queryOrder := tx.Rebind(`
		INSERT INTO orders (id, checkout_session_id, full_name, email, phone, address_line1, address_line2,
			city, postal_code, country, subtotal, shipping_cost, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = tx.ExecContext(ctx, queryOrder,
		o.ID,
		o.CheckoutSessionID,
		o.FullName,
		o.Email,
		o.Phone,
		o.AddressLine1,
		o.AddressLine2,
		o.City,
		o.PostalCode,
		o.Country,
		o.Subtotal,
		o.ShippingCost,
		o.Total,
		o.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyConfirmed
		}
		return apperr.Persistence("insert order", err)
	}

	queryItem := tx.Rebind(`
		INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		item.Position = i

		_, err = tx.ExecContext(ctx, queryItem,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			item.Position,
		)
		if err != nil {
			return apperr.Persistence(fmt.Sprintf("insert item %d of order %s", i, o.ID), err)
		}
	}

	return nil
}

func (r *sqlRepository) List(ctx context.Context) ([]Order, error) {
	queryOrders := `
		SELECT id, checkout_session_id, full_name, email, phone, address_line1, address_line2,
			city, postal_code, country, subtotal, shipping_cost, total, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`

	orders := make([]Order, 0)
	if err := r.db.SelectContext(ctx, &orders, queryOrders); err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for i := range orders {
		orders[i].Items = make([]Item, 0)
		id := orders[i].ID.String()
		orderIDs = append(orderIDs, id)
		byID[id] = &orders[i]
	}

	queryItems, args, err := sqlx.In(`
		SELECT id, order_id, product_id, product_name, unit_price, quantity, position
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, apperr.Persistence("build order items query", err)
	}

	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(queryItems), args...); err != nil {
		return nil, apperr.Persistence("list order items", err)
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID.String()]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return orders, nil
}
