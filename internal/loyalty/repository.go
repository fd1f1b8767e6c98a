package loyalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

type Repository interface {
	CreateVideoReview(ctx context.Context, vr *VideoReview) (*VideoReview, error)
	GetVideoReviewByID(ctx context.Context, id uint) (*VideoReview, error)
	ListVideoReviews(ctx context.Context, filter VideoReviewFilter) ([]VideoReview, error)
	UpdateVideoReview(ctx context.Context, vr *VideoReview) (*VideoReview, error)
	SetVideoReviewStatus(ctx context.Context, id uint, status VideoStatus, adminNotes *string) (*VideoReview, error)
	DeleteVideoReview(ctx context.Context, id uint) error

	CreateCoupon(ctx context.Context, c *Coupon) (*Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	ListUserCoupons(ctx context.Context, userID uint) ([]Coupon, error)
	ListCoupons(ctx context.Context, isActive *bool, limit, offset int32) ([]Coupon, error)
	RedeemCoupon(ctx context.Context, couponID, orderID uint, discountAmount float64) error
	DeactivateCoupon(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVideoReview(ctx context.Context, vr *VideoReview) (*VideoReview, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO video_reviews (user_id, video_url, description, platform, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		vr.UserID, vr.VideoURL, vr.Description, vr.Platform, vr.Status,
	).Scan(&vr.ID, &vr.CreatedAt)
	if err != nil {
		return nil, err
	}

	return vr, nil
}

const videoReviewColumns = `vr.id, vr.user_id, u.username, vr.video_url, vr.description,
	vr.platform, vr.status, vr.admin_notes, vr.created_at, vr.updated_at`

func scanVideoReview(row interface{ Scan(...any) error }, vr *VideoReview) error {
	return row.Scan(
		&vr.ID, &vr.UserID, &vr.Username, &vr.VideoURL, &vr.Description,
		&vr.Platform, &vr.Status, &vr.AdminNotes, &vr.CreatedAt, &vr.UpdatedAt,
	)
}

func (r *repository) GetVideoReviewByID(ctx context.Context, id uint) (*VideoReview, error) {
	var vr VideoReview
	err := scanVideoReview(r.db.QueryRowContext(ctx, `
		SELECT `+videoReviewColumns+`
		FROM video_reviews vr
		JOIN users u ON u.id = vr.user_id
		WHERE vr.id = $1
	`, id), &vr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	return &vr, nil
}

func (r *repository) ListVideoReviews(ctx context.Context, filter VideoReviewFilter) ([]VideoReview, error) {
	query := `SELECT ` + videoReviewColumns + `
		FROM video_reviews vr
		JOIN users u ON u.id = vr.user_id
		WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND vr.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(" AND vr.user_id = $%d", argIndex)
		args = append(args, *filter.UserID)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY vr.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []VideoReview
	for rows.Next() {
		var vr VideoReview
		if err := scanVideoReview(rows, &vr); err != nil {
			return nil, err
		}
		reviews = append(reviews, vr)
	}

	return reviews, rows.Err()
}

func (r *repository) UpdateVideoReview(ctx context.Context, vr *VideoReview) (*VideoReview, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE video_reviews
		SET video_url = $1, description = $2, platform = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, vr.VideoURL, vr.Description, vr.Platform, vr.ID).Scan(&vr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	return vr, nil
}

func (r *repository) SetVideoReviewStatus(ctx context.Context, id uint, status VideoStatus, adminNotes *string) (*VideoReview, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE video_reviews
		SET status = $1, admin_notes = $2, updated_at = NOW()
		WHERE id = $3
	`, status, adminNotes, id)
	if err != nil {
		return nil, err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrVideoReviewNotFound
	}

	return r.GetVideoReviewByID(ctx, id)
}

func (r *repository) DeleteVideoReview(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrVideoReviewNotFound
	}
	return nil
}

func (r *repository) CreateCoupon(ctx context.Context, c *Coupon) (*Coupon, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupon_codes (code, user_id, discount_percentage, max_uses, expires_at, created_by_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, used_count, is_active, created_at
	`,
		c.Code, c.UserID, c.DiscountPercentage, c.MaxUses, c.ExpiresAt, c.CreatedByAdmin,
	).Scan(&c.ID, &c.UsedCount, &c.IsActive, &c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			// Generated code collided; the caller retries with a new one.
			return nil, fmt.Errorf("%w: code %s", ErrCouponInvalid, c.Code)
		}
		return nil, err
	}

	return c, nil
}

const couponColumns = `id, code, user_id, discount_percentage, max_uses,
	used_count, is_active, expires_at, created_at, created_by_admin`

func scanCoupon(row interface{ Scan(...any) error }, c *Coupon) error {
	return row.Scan(
		&c.ID, &c.Code, &c.UserID, &c.DiscountPercentage, &c.MaxUses,
		&c.UsedCount, &c.IsActive, &c.ExpiresAt, &c.CreatedAt, &c.CreatedByAdmin,
	)
}

func (r *repository) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := scanCoupon(r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes WHERE code = $1`, code,
	), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) ListUserCoupons(ctx context.Context, userID uint) ([]Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+couponColumns+`
		FROM coupon_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCoupons(rows)
}

func (r *repository) ListCoupons(ctx context.Context, isActive *bool, limit, offset int32) ([]Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupon_codes WHERE 1=1`
	args := []any{}
	argIndex := 1

	if isActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *isActive)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCoupons(rows)
}

func scanCoupons(rows *sql.Rows) ([]Coupon, error) {
	var coupons []Coupon
	for rows.Next() {
		var c Coupon
		if err := scanCoupon(rows, &c); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// RedeemCoupon records one usage and bumps the counter in a single
// transaction. The guarded UPDATE re-checks activity and remaining uses
// so two racing redemptions of a coupon's last use settle as one
// success and one ErrCouponInvalid.
func (r *repository) RedeemCoupon(ctx context.Context, couponID, orderID uint, discountAmount float64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "RedeemCoupon"),
		zap.Uint("coupon_id", couponID),
		zap.Uint("order_id", orderID),
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
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE coupon_codes
		SET used_count = used_count + 1,
		    is_active = (used_count + 1 < max_uses)
		WHERE id = $1 AND is_active AND used_count < max_uses
	`, couponID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: coupon %d", ErrCouponInvalid, couponID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO coupon_usages (coupon_id, order_id, discount_amount)
		VALUES ($1, $2, $3)
	`, couponID, orderID, discountAmount)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	log.Info("coupon redeemed", zap.Float64("discount_amount", discountAmount))
	return nil
}

func (r *repository) DeactivateCoupon(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE coupon_codes SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}
