package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func TestRepository_ResolveItems(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	productCols := []string{"id", "name", "original_price", "discount_price", "stock_quantity", "is_active"}

	t.Run("Success", func(t *testing.T) {
		discount := 8.0
		mock.ExpectQuery(`SELECT id, name, original_price, .* FROM products WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(1, "Mug", 10.0, discount, 5, true))

		resolved, err := repo.ResolveItems(ctx, []LineItemInput{{ProductID: 1, Quantity: 3}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, 8.0, resolved[0].UnitPrice, "effective price takes the lower discount price")
		assert.Equal(t, 3, resolved[0].Quantity)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		_, err := repo.ResolveItems(ctx, []LineItemInput{{ProductID: 1, Quantity: 0}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, original_price, .* FROM products WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.ResolveItems(ctx, []LineItemInput{{ProductID: 99, Quantity: 1}})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("ProductInactive", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, original_price, .* FROM products WHERE id = \$1`).
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(2, "Plate", 7.5, nil, 5, false))

		_, err := repo.ResolveItems(ctx, []LineItemInput{{ProductID: 2, Quantity: 1}})
		assert.ErrorIs(t, err, ErrProductInactive)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, original_price, .* FROM products WHERE id = \$1`).
			WithArgs(uint(3)).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(3, "Bowl", 4.0, nil, 2, true))

		_, err := repo.ResolveItems(ctx, []LineItemInput{{ProductID: 3, Quantity: 3}})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func placedOrderFixture() *Order {
	userID := uint(7)
	return &Order{
		UserID:          &userID,
		TotalAmount:     30,
		Status:          StatusPending,
		ShippingAddress: "1 Main St",
		ContactName:     "Jane Doe",
		ContactEmail:    "jane@example.com",
		PaymentMethod:   PaymentCreditCard,
		CreatedAt:       time.Now(),
		Items: []OrderItem{
			{ProductID: 1, ProductName: "Mug", Quantity: 3, UnitPrice: 10, TotalPrice: 30},
		},
	}
}

func TestRepository_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		o := placedOrderFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1, updated_at = NOW\(\) WHERE id = \$2 AND stock_quantity >= \$1`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(o.UserID, 30.0, StatusPending, "1 Main St",
				"Jane Doe", "jane@example.com", nil,
				PaymentCreditCard, nil, o.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(42), uint(1), 3, 10.0, 30.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		mock.ExpectCommit()

		require.NoError(t, repo.PlaceOrder(ctx, o))
		assert.Equal(t, uint(42), o.ID)
		assert.Equal(t, uint(42), o.Items[0].OrderID)
		assert.Equal(t, uint(101), o.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReCheckFailureRollsBack", func(t *testing.T) {
		// A concurrent placement consumed the stock between the validator
		// read and the decrement: zero rows affected, full rollback, no
		// order or item rows ever written.
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		o := placedOrderFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.PlaceOrder(ctx, o)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Zero(t, o.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondItemFailureRollsBackFirstDecrement", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		o := placedOrderFixture()
		o.Items = append(o.Items, OrderItem{
			ProductID: 2, ProductName: "Plate", Quantity: 2, UnitPrice: 7.5, TotalPrice: 15,
		})

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(2, uint(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.PlaceOrder(ctx, o)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuestOrderInsertsNullUser", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		o := placedOrderFixture()
		o.UserID = nil

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(nil, 30.0, StatusPending, "1 Main St",
				"Jane Doe", "jane@example.com", nil,
				PaymentCreditCard, nil, o.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(43), uint(1), 3, 10.0, 30.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
		mock.ExpectCommit()

		require.NoError(t, repo.PlaceOrder(ctx, o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SerializationFailureMapsToConflict", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		o := placedOrderFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(3, uint(1)).
			WillReturnError(&pq.Error{Code: "40001"})
		mock.ExpectRollback()

		err := repo.PlaceOrder(ctx, o)
		assert.ErrorIs(t, err, ErrTransactionConflict)
	})
}

var orderCols = []string{
	"id", "user_id", "total_amount", "status", "shipping_address",
	"contact_name", "contact_email", "contact_phone",
	"payment_method", "special_instructions", "created_at", "updated_at",
}

var itemCols = []string{
	"id", "order_id", "product_id", "quantity", "unit_price", "total_price", "name",
}

func TestRepository_GetOrderDetail(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, user_id, .* FROM orders WHERE id = \$1`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(
				42, 7, 30.0, StatusPending, "1 Main St",
				"Jane Doe", "jane@example.com", nil,
				PaymentCreditCard, nil, time.Now(), nil,
			))
		mock.ExpectQuery(`SELECT oi.id, oi.order_id, .* FROM order_items oi`).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(101, 42, 1, 3, 10.0, 30.0, "Mug"))

		o, err := repo.GetOrderDetail(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, uint(42), o.ID)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Mug", o.Items[0].ProductName)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, user_id, .* FROM orders WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOrderDetail(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_FetchUserOrders(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT .* FROM orders WHERE user_id = \$1 OR \(user_id IS NULL AND LOWER\(contact_email\) = LOWER\(\$2\)\) ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(uint(7), "jane@example.com", int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, 7, 30.0, StatusPending, "a", "Jane", "jane@example.com", nil, PaymentCreditCard, nil, time.Now(), nil).
			AddRow(2, nil, 12.0, StatusDelivered, "a", "Jane", "jane@example.com", nil, PaymentPaypal, nil, time.Now(), nil))

	orders, err := repo.FetchUserOrders(context.Background(), 7, "jane@example.com", 20, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Nil(t, orders[1].UserID, "guest order surfaced by contact email")
}

func TestRepository_FetchAllOrders(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	t.Run("NoFilter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE 1=1 ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(int32(50), int32(0)).
			WillReturnRows(sqlmock.NewRows(orderCols))

		_, err := repo.FetchAllOrders(context.Background(), nil, 50, 0)
		assert.NoError(t, err)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		status := StatusPending
		mock.ExpectQuery(`SELECT .* FROM orders WHERE 1=1 AND status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(status, int32(50), int32(0)).
			WillReturnRows(sqlmock.NewRows(orderCols))

		_, err := repo.FetchAllOrders(context.Background(), &status, 50, 0)
		assert.NoError(t, err)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	expectDetail := func(mock sqlmock.Sqlmock, status OrderStatus) {
		mock.ExpectQuery(`SELECT id, user_id, .* FROM orders WHERE id = \$1`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(
				42, 7, 30.0, status, "1 Main St",
				"Jane Doe", "jane@example.com", nil,
				PaymentCreditCard, nil, time.Now(), time.Now(),
			))
		mock.ExpectQuery(`SELECT oi.id, oi.order_id, .* FROM order_items oi`).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(101, 42, 1, 3, 10.0, 30.0, "Mug"))
	}

	t.Run("CancelPendingRestocks", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusPending))
		mock.ExpectQuery(`SELECT product_id, quantity FROM order_items WHERE order_id = \$1`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(1, 3))
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusCancelled, uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		expectDetail(mock, StatusCancelled)

		o, err := repo.UpdateStatus(ctx, 42, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConfirmPendingNoRestock", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusPending))
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusConfirmed, uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		expectDetail(mock, StatusConfirmed)

		o, err := repo.UpdateStatus(ctx, 42, StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CancelShippedIsIllegal", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusShipped))
		mock.ExpectRollback()

		_, err := repo.UpdateStatus(ctx, 42, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(99)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.UpdateStatus(ctx, 99, StatusConfirmed)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
