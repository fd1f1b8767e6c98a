package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error)
	Deactivate(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, original_price, discount_price,
	stock_quantity, category, tags, colors, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.OriginalPrice, &p.DiscountPrice,
		&p.StockQuantity, &p.Category, &p.Tags, &p.Colors,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argIndex := 1

	if opts.OnlyActive {
		query += " AND is_active = true"
	}
	if opts.Category != nil && *opts.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *opts.Category)
		argIndex++
	}
	if opts.Search != nil && *opts.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR tags ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*opts.Search+"%")
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, input NewProduct) (*Product, error) {
	p := Product{
		Name:          input.Name,
		Description:   input.Description,
		OriginalPrice: input.OriginalPrice,
		DiscountPrice: input.DiscountPrice,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		Tags:          input.Tags,
		Colors:        input.Colors,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, original_price, discount_price,
			stock_quantity, category, tags, colors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at
	`,
		p.Name, p.Description, p.OriginalPrice, p.DiscountPrice,
		p.StockQuantity, p.Category, p.Tags, p.Colors,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Update applies a partial catalog edit. It locks the product row for
// the duration of the transaction so price/stock edits do not race with
// in-flight order placements decrementing the same row.
func (r *repository) Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateProduct"),
		zap.Uint("product_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p Product
	err = scanProduct(tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id,
	), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.OriginalPrice != nil {
		p.OriginalPrice = *input.OriginalPrice
	}
	if input.DiscountPrice != nil {
		p.DiscountPrice = input.DiscountPrice
	}
	if input.StockQuantity != nil {
		p.StockQuantity = *input.StockQuantity
	}
	if input.Category != nil {
		p.Category = input.Category
	}
	if input.Tags != nil {
		p.Tags = input.Tags
	}
	if input.Colors != nil {
		p.Colors = input.Colors
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, original_price = $3, discount_price = $4,
			stock_quantity = $5, category = $6, tags = $7, colors = $8,
			is_active = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`,
		p.Name, p.Description, p.OriginalPrice, p.DiscountPrice,
		p.StockQuantity, p.Category, p.Tags, p.Colors,
		p.IsActive, id,
	).Scan(&p.UpdatedAt)
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) Deactivate(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
