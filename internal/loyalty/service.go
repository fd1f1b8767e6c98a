package loyalty

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

const (
	couponCodePrefix    = "LOYALTY"
	couponCodeLength    = 8
	couponCodeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	couponCreateRetries = 3

	defaultDiscountPercentage = 10
	defaultMaxUses            = 10
)

// UserFinder is the slice of the user service the loyalty module needs:
// resolving the recipient of an admin-issued coupon.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type Service interface {
	SubmitVideoReview(ctx context.Context, in NewVideoReview) (*VideoReview, error)
	GetVideoReview(ctx context.Context, id uint) (*VideoReview, error)
	ListVideoReviews(ctx context.Context, filter VideoReviewFilter) ([]VideoReview, error)
	UpdateMyVideoReview(ctx context.Context, id uint, in UpdateVideoReview) (*VideoReview, error)
	DeleteVideoReview(ctx context.Context, id uint) error
	SetVideoReviewStatus(ctx context.Context, id uint, status VideoStatus, adminNotes *string) (*VideoReview, error)

	CreateCoupon(ctx context.Context, in NewCoupon) (*Coupon, error)
	ListCoupons(ctx context.Context, isActive *bool, limit, offset int32) ([]Coupon, error)
	MyCoupons(ctx context.Context) ([]Coupon, error)
	ValidateCoupon(ctx context.Context, code string) (*Coupon, error)
	DeactivateCoupon(ctx context.Context, id uint) error

	ValidateForUser(ctx context.Context, code string, userID uint) (discountPercent int, couponID uint, err error)
	Redeem(ctx context.Context, couponID, orderID uint, discountAmount float64) error

	Platforms() []string
	VideoStatuses() []VideoStatus
}

type service struct {
	repo  Repository
	users UserFinder
}

func NewService(repo Repository, users UserFinder) Service {
	return &service{repo: repo, users: users}
}

func (s *service) SubmitVideoReview(ctx context.Context, in NewVideoReview) (*VideoReview, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	platform := strings.ToLower(strings.TrimSpace(in.Platform))
	if !ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, in.Platform)
	}

	vr := &VideoReview{
		UserID:      userID,
		VideoURL:    in.VideoURL,
		Description: in.Description,
		Platform:    platform,
		Status:      VideoPending,
	}

	created, err := s.repo.CreateVideoReview(ctx, vr)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("video review submitted",
		zap.Uint("video_review_id", created.ID),
		zap.String("platform", platform),
	)
	return created, nil
}

func (s *service) GetVideoReview(ctx context.Context, id uint) (*VideoReview, error) {
	return s.repo.GetVideoReviewByID(ctx, id)
}

func (s *service) ListVideoReviews(ctx context.Context, filter VideoReviewFilter) ([]VideoReview, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVideoStatus, *filter.Status)
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	return s.repo.ListVideoReviews(ctx, filter)
}

// UpdateMyVideoReview lets the submitter amend their link while it is
// still pending. Moderated reviews are frozen.
func (s *service) UpdateMyVideoReview(ctx context.Context, id uint, in UpdateVideoReview) (*VideoReview, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if in.VideoURL == nil && in.Description == nil && in.Platform == nil {
		return nil, ErrEmptyUpdate
	}

	vr, err := s.repo.GetVideoReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vr.UserID != userID {
		return nil, ErrUnauthorized
	}
	if vr.Status != VideoPending {
		return nil, ErrVideoReviewLocked
	}

	if in.VideoURL != nil {
		vr.VideoURL = *in.VideoURL
	}
	if in.Description != nil {
		vr.Description = in.Description
	}
	if in.Platform != nil {
		platform := strings.ToLower(strings.TrimSpace(*in.Platform))
		if !ValidPlatform(platform) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, *in.Platform)
		}
		vr.Platform = platform
	}

	return s.repo.UpdateVideoReview(ctx, vr)
}

func (s *service) DeleteVideoReview(ctx context.Context, id uint) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	vr, err := s.repo.GetVideoReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if vr.UserID != userID && !utils.IsAdmin(ctx) {
		return ErrUnauthorized
	}

	return s.repo.DeleteVideoReview(ctx, id)
}

func (s *service) SetVideoReviewStatus(ctx context.Context, id uint, status VideoStatus, adminNotes *string) (*VideoReview, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVideoStatus, status)
	}

	vr, err := s.repo.SetVideoReviewStatus(ctx, id, status, adminNotes)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("video review moderated",
		zap.Uint("video_review_id", id),
		zap.String("status", string(status)),
	)
	return vr, nil
}

func (s *service) CreateCoupon(ctx context.Context, in NewCoupon) (*Coupon, error) {
	adminID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}

	recipient, err := s.users.FindByEmail(ctx, in.UserEmail)
	if err != nil {
		return nil, err
	}

	pct := in.DiscountPercentage
	if pct <= 0 || pct > 100 {
		pct = defaultDiscountPercentage
	}
	maxUses := in.MaxUses
	if maxUses <= 0 {
		maxUses = defaultMaxUses
	}

	var created *Coupon
	for attempt := 0; attempt < couponCreateRetries; attempt++ {
		code, genErr := generateCouponCode()
		if genErr != nil {
			return nil, genErr
		}

		created, err = s.repo.CreateCoupon(ctx, &Coupon{
			Code:               code,
			UserID:             recipient.ID,
			DiscountPercentage: pct,
			MaxUses:            maxUses,
			ExpiresAt:          in.ExpiresAt,
			CreatedByAdmin:     &adminID,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, ErrCouponInvalid) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("coupon issued",
		zap.Uint("coupon_id", created.ID),
		zap.Uint("user_id", recipient.ID),
		zap.Int("discount_percentage", pct),
	)
	return created, nil
}

func (s *service) ListCoupons(ctx context.Context, isActive *bool, limit, offset int32) ([]Coupon, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListCoupons(ctx, isActive, limit, offset)
}

func (s *service) MyCoupons(ctx context.Context) ([]Coupon, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.repo.ListUserCoupons(ctx, userID)
}

func (s *service) ValidateCoupon(ctx context.Context, code string) (*Coupon, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	c, err := s.repo.GetCouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if err := usableBy(c, userID); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *service) DeactivateCoupon(ctx context.Context, id uint) error {
	if !utils.IsAdmin(ctx) {
		return ErrUnauthorized
	}
	return s.repo.DeactivateCoupon(ctx, id)
}

// ValidateForUser is the checkout-facing check: it confirms the coupon
// belongs to the given user and still has uses left, returning the
// discount to apply. A zero userID (guest checkout) never matches.
func (s *service) ValidateForUser(ctx context.Context, code string, userID uint) (int, uint, error) {
	if userID == 0 {
		return 0, 0, ErrCouponInvalid
	}

	c, err := s.repo.GetCouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, ErrCouponNotFound) {
		return 0, 0, ErrCouponInvalid
	}
	if err != nil {
		return 0, 0, err
	}
	if err := usableBy(c, userID); err != nil {
		return 0, 0, err
	}

	return c.DiscountPercentage, c.ID, nil
}

func (s *service) Redeem(ctx context.Context, couponID, orderID uint, discountAmount float64) error {
	return s.repo.RedeemCoupon(ctx, couponID, orderID, discountAmount)
}

func (s *service) Platforms() []string {
	return Platforms()
}

func (s *service) VideoStatuses() []VideoStatus {
	return VideoStatuses()
}

func usableBy(c *Coupon, userID uint) error {
	if c.UserID != userID {
		return ErrCouponInvalid
	}
	if !c.IsActive {
		return ErrCouponInvalid
	}
	if c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt) {
		return ErrCouponInvalid
	}
	if c.UsedCount >= c.MaxUses {
		return ErrCouponInvalid
	}
	return nil
}

func generateCouponCode() (string, error) {
	buf := make([]byte, couponCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = couponCodeAlphabet[int(b)%len(couponCodeAlphabet)]
	}
	return couponCodePrefix + string(buf), nil
}

func normalizePage(limit, offset int32) (int32, int32) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
