package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type Repository interface {
	ResolveItems(ctx context.Context, items []LineItemInput) ([]ResolvedItem, error)
	PlaceOrder(ctx context.Context, o *Order) error
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	FetchUserOrders(ctx context.Context, userID uint, email string, limit, offset int32) ([]*Order, error)
	FetchAllOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error)
	FetchOrderItems(ctx context.Context, orderIDs []uint) (map[uint][]OrderItem, error)
	UpdateStatus(ctx context.Context, orderID uint, next OrderStatus) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// translatePgErr maps commit-time concurrency failures onto the retryable
// sentinel so callers can distinguish them from permanent errors.
func translatePgErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %v", ErrTransactionConflict, err)
		}
	}
	return err
}

// ResolveItems is the validator read pass: it resolves each requested
// product and snapshots its effective price. The stock check here is
// optimistic; PlaceOrder re-checks under the transaction.
func (r *repository) ResolveItems(ctx context.Context, items []LineItemInput) ([]ResolvedItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ResolveItems"),
		zap.Int("item_count", len(items)),
	)

	resolved := make([]ResolvedItem, 0, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}

		var p product.Product
		err := r.db.QueryRowContext(ctx, `
			SELECT id, name, original_price, discount_price, stock_quantity, is_active
			FROM products
			WHERE id = $1
		`, item.ProductID).Scan(
			&p.ID, &p.Name, &p.OriginalPrice, &p.DiscountPrice,
			&p.StockQuantity, &p.IsActive,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		if err != nil {
			log.Error("failed to resolve product",
				zap.Uint("product_id", item.ProductID),
				zap.Error(err),
			)
			return nil, err
		}

		if !p.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductInactive, item.ProductID)
		}
		if p.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
		}

		resolved = append(resolved, ResolvedItem{
			Product:   p,
			UnitPrice: p.EffectivePrice(),
			Quantity:  item.Quantity,
		})
	}

	return resolved, nil
}

// PlaceOrder is the unit of work for order placement: guarded stock
// decrements, the order row, and its items all commit or roll back
// together. The decrement re-checks stock via the WHERE clause, so two
// racing placements over the same last unit settle as one success and
// one ErrInsufficientStock.
func (r *repository) PlaceOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// 1. Guarded decrement per item. RowsAffected == 0 means the stock
	// observed by the validator was consumed by a concurrent placement.
	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return translatePgErr(err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn("stock re-check failed at decrement",
				zap.Uint("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
			return fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
		}
	}

	// 2. Insert order header.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, total_amount, status, shipping_address,
			contact_name, contact_email, contact_phone,
			payment_method, special_instructions, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		o.UserID, o.TotalAmount, o.Status, o.ShippingAddress,
		o.ContactName, o.ContactEmail, o.ContactPhone,
		o.PaymentMethod, o.SpecialInstructions, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return translatePgErr(err)
	}

	// 3. Insert line items.
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			item.OrderID, item.ProductID, item.Quantity,
			item.UnitPrice, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			return translatePgErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translatePgErr(err)
	}

	committed = true
	log.Info("order placed",
		zap.Uint("order_id", o.ID),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_amount, status, shipping_address,
		       contact_name, contact_email, contact_phone,
		       payment_method, special_instructions, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress,
		&o.ContactName, &o.ContactEmail, &o.ContactPhone,
		&o.PaymentMethod, &o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.FetchOrderItems(ctx, []uint{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return &o, nil
}

const orderListColumns = `id, user_id, total_amount, status, shipping_address,
	contact_name, contact_email, contact_phone,
	payment_method, special_instructions, created_at, updated_at`

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress,
			&o.ContactName, &o.ContactEmail, &o.ContactPhone,
			&o.PaymentMethod, &o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// FetchUserOrders returns the user's own orders plus guest orders placed
// with the account's contact email, so pre-registration purchases show
// up without an explicit claim step.
func (r *repository) FetchUserOrders(ctx context.Context, userID uint, email string, limit, offset int32) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderListColumns+`
		FROM orders
		WHERE user_id = $1 OR (user_id IS NULL AND LOWER(contact_email) = LOWER($2))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *repository) FetchAllOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error) {
	query := `SELECT ` + orderListColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	argIndex := 1

	if status != nil && *status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *repository) FetchOrderItems(ctx context.Context, orderIDs []uint) (map[uint][]OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[uint][]OrderItem{}, nil
	}

	ids := make([]int64, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, int64(id))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price,
		       COALESCE(p.name, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint][]OrderItem, len(orderIDs))
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&item.ProductName,
		); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}

// UpdateStatus advances the order through the lifecycle graph. The order
// row is locked first so the transition check and the compensating
// restock observe a stable status; restock increments ride in the same
// transaction as the status write.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, next OrderStatus) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("next_status", string(next)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var current OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, translatePgErr(err)
	}

	if !CanTransition(current, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current, next)
	}

	if RestocksOnTransition(current, next) {
		rows, err := tx.QueryContext(ctx,
			`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, orderID)
		if err != nil {
			return nil, err
		}

		type restock struct {
			productID uint
			quantity  int
		}
		var restocks []restock
		for rows.Next() {
			var rs restock
			if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
				rows.Close()
				return nil, err
			}
			restocks = append(restocks, rs)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rs := range restocks {
			_, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity + $1, updated_at = NOW()
				WHERE id = $2
			`, rs.quantity, rs.productID)
			if err != nil {
				return nil, translatePgErr(err)
			}
		}

		log.Info("restocked cancelled order items", zap.Int("item_count", len(restocks)))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return nil, translatePgErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translatePgErr(err)
	}
	committed = true

	log.Info("order status updated", zap.String("from", string(current)))

	return r.GetOrderDetail(ctx, orderID)
}
