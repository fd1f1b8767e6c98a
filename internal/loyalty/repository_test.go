package loyalty

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

var videoReviewCols = []string{
	"id", "user_id", "username", "video_url", "description",
	"platform", "status", "admin_notes", "created_at", "updated_at",
}

var couponCols = []string{
	"id", "code", "user_id", "discount_percentage", "max_uses",
	"used_count", "is_active", "expires_at", "created_at", "created_by_admin",
}

func TestRepository_CreateVideoReview(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO video_reviews .* RETURNING id, created_at`).
		WithArgs(uint(7), "https://youtube.com/watch?v=abc", nil, "youtube", VideoPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	vr, err := repo.CreateVideoReview(ctx, &VideoReview{
		UserID:   7,
		VideoURL: "https://youtube.com/watch?v=abc",
		Platform: "youtube",
		Status:   VideoPending,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), vr.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetVideoReviewByID(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT vr.id, vr.user_id, u.username, .* FROM video_reviews vr JOIN users u ON u.id = vr.user_id WHERE vr.id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(videoReviewCols).
				AddRow(1, 7, "jane", "https://youtube.com/watch?v=abc", nil, "youtube", "pending", nil, time.Now(), nil))

		vr, err := repo.GetVideoReviewByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "jane", vr.Username)
		assert.Equal(t, VideoPending, vr.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT vr.id, .* FROM video_reviews vr`).
			WithArgs(uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetVideoReviewByID(ctx, 99)
		assert.ErrorIs(t, err, ErrVideoReviewNotFound)
	})
}

func TestRepository_ListVideoReviews(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("StatusFilter", func(t *testing.T) {
		status := VideoApproved
		mock.ExpectQuery(`SELECT vr.id, .* WHERE 1=1 AND vr.status = \$1 ORDER BY vr.created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(status, int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows(videoReviewCols).
				AddRow(1, 7, "jane", "https://youtube.com/watch?v=abc", nil, "youtube", "approved", nil, time.Now(), nil))

		got, err := repo.ListVideoReviews(ctx, VideoReviewFilter{Status: &status, Limit: 20})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, VideoApproved, got[0].Status)
	})

	t.Run("NoFilter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT vr.id, .* WHERE 1=1 ORDER BY vr.created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows(videoReviewCols))

		got, err := repo.ListVideoReviews(ctx, VideoReviewFilter{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRepository_SetVideoReviewStatus(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Moderates", func(t *testing.T) {
		notes := "great video"
		mock.ExpectExec(`UPDATE video_reviews SET status = \$1, admin_notes = \$2, updated_at = NOW\(\) WHERE id = \$3`).
			WithArgs(VideoApproved, &notes, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT vr.id, .* FROM video_reviews vr`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(videoReviewCols).
				AddRow(1, 7, "jane", "https://youtube.com/watch?v=abc", nil, "youtube", "approved", notes, time.Now(), time.Now()))

		vr, err := repo.SetVideoReviewStatus(ctx, 1, VideoApproved, &notes)
		require.NoError(t, err)
		assert.Equal(t, VideoApproved, vr.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE video_reviews SET status = \$1`).
			WithArgs(VideoRejected, nil, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.SetVideoReviewStatus(ctx, 99, VideoRejected, nil)
		assert.ErrorIs(t, err, ErrVideoReviewNotFound)
	})
}

func TestRepository_CreateCoupon(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		adminID := uint(1)
		mock.ExpectQuery(`INSERT INTO coupon_codes .* RETURNING id, used_count, is_active, created_at`).
			WithArgs("LOYALTYAB12CD34", uint(7), 10, 10, nil, &adminID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "used_count", "is_active", "created_at"}).
				AddRow(5, 0, true, time.Now()))

		c, err := repo.CreateCoupon(ctx, &Coupon{
			Code:               "LOYALTYAB12CD34",
			UserID:             7,
			DiscountPercentage: 10,
			MaxUses:            10,
			CreatedByAdmin:     &adminID,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(5), c.ID)
		assert.True(t, c.IsActive)
	})

	t.Run("CodeCollision", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO coupon_codes`).
			WithArgs("LOYALTYAB12CD34", uint(7), 10, 10, nil, nil).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "coupon_codes_code_key"})

		_, err := repo.CreateCoupon(ctx, &Coupon{
			Code:               "LOYALTYAB12CD34",
			UserID:             7,
			DiscountPercentage: 10,
			MaxUses:            10,
		})
		assert.ErrorIs(t, err, ErrCouponInvalid)
	})
}

func TestRepository_GetCouponByCode(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, code, user_id, .* FROM coupon_codes WHERE code = \$1`).
			WithArgs("LOYALTYAB12CD34").
			WillReturnRows(sqlmock.NewRows(couponCols).
				AddRow(5, "LOYALTYAB12CD34", 7, 10, 10, 3, true, nil, time.Now(), nil))

		c, err := repo.GetCouponByCode(ctx, "LOYALTYAB12CD34")
		require.NoError(t, err)
		assert.Equal(t, uint(7), c.UserID)
		assert.Equal(t, 3, c.UsedCount)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, code, user_id, .* FROM coupon_codes WHERE code = \$1`).
			WithArgs("LOYALTYZZ99YY88").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetCouponByCode(ctx, "LOYALTYZZ99YY88")
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})
}

func TestRepository_RedeemCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE coupon_codes SET used_count = used_count \+ 1, is_active = \(used_count \+ 1 < max_uses\) WHERE id = \$1 AND is_active AND used_count < max_uses`).
			WithArgs(uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO coupon_usages \(coupon_id, order_id, discount_amount\) VALUES \(\$1, \$2, \$3\)`).
			WithArgs(uint(5), uint(42), 2.0).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.RedeemCoupon(ctx, 5, 42, 2.0)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExhaustedCouponRollsBack", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE coupon_codes SET used_count = used_count \+ 1`).
			WithArgs(uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.RedeemCoupon(ctx, 5, 42, 2.0)
		assert.ErrorIs(t, err, ErrCouponInvalid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UsageInsertFailureRollsBack", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE coupon_codes SET used_count = used_count \+ 1`).
			WithArgs(uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO coupon_usages`).
			WithArgs(uint(5), uint(42), 2.0).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.RedeemCoupon(ctx, 5, 42, 2.0)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DeactivateCoupon(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("Deactivates", func(t *testing.T) {
		mock.ExpectExec(`UPDATE coupon_codes SET is_active = false WHERE id = \$1`).
			WithArgs(uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeactivateCoupon(ctx, 5))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE coupon_codes SET is_active = false WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeactivateCoupon(ctx, 99), ErrCouponNotFound)
	})
}
