package review

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository interface {
	Create(ctx context.Context, rv *Review) (*Review, error)
	GetByID(ctx context.Context, id uint) (*Review, error)
	ListByProduct(ctx context.Context, productID uint, limit, offset int32) ([]Review, error)
	ListByUser(ctx context.Context, userID uint) ([]Review, error)
	SummaryForProduct(ctx context.Context, productID uint) (*ProductSummary, error)
	Update(ctx context.Context, rv *Review) (*Review, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) (*Review, error) {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		rv.UserID, rv.ProductID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pgUniqueViolation:
				return nil, ErrAlreadyReviewed
			case pgForeignKeyViolation:
				return nil, ErrProductNotFound
			}
		}

		log.Error("db: failed to insert review",
			zap.Uint("product_id", rv.ProductID),
			zap.Error(err),
		)
		return nil, err
	}

	return rv, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Review, error) {
	var rv Review
	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.user_id, u.username, r.product_id, r.rating, r.comment,
		       r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`, id).Scan(
		&rv.ID, &rv.UserID, &rv.Username, &rv.ProductID, &rv.Rating,
		&rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rv, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uint, limit, offset int32) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, u.username, r.product_id, r.rating, r.comment,
		       r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, u.username, r.product_id, r.rating, r.comment,
		       r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]Review, error) {
	var reviews []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.Username, &rv.ProductID, &rv.Rating,
			&rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *repository) SummaryForProduct(ctx context.Context, productID uint) (*ProductSummary, error) {
	s := ProductSummary{ProductID: productID}
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1
	`, productID).Scan(&s.AverageRating, &s.ReviewCount)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) Update(ctx context.Context, rv *Review) (*Review, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, rv.Rating, rv.Comment, rv.ID).Scan(&rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	return rv, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
