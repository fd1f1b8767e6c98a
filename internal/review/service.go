package review

import (
	"context"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	CreateReview(ctx context.Context, input NewReview) (*Review, error)
	ListProductReviews(ctx context.Context, productID uint, limit, offset int32) ([]Review, *ProductSummary, error)
	ListMyReviews(ctx context.Context) ([]Review, error)
	UpdateReview(ctx context.Context, reviewID uint, input UpdateReview) (*Review, error)
	DeleteReview(ctx context.Context, reviewID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func (s *service) CreateReview(ctx context.Context, input NewReview) (*Review, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !validRating(input.Rating) {
		return nil, ErrInvalidRating
	}

	rv := &Review{
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	created, err := s.repo.Create(ctx, rv)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("review created",
		zap.Uint("review_id", created.ID),
		zap.Uint("product_id", created.ProductID),
		zap.Int("rating", created.Rating),
	)

	return created, nil
}

func (s *service) ListProductReviews(ctx context.Context, productID uint, limit, offset int32) ([]Review, *ProductSummary, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.repo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.repo.SummaryForProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	return reviews, summary, nil
}

func (s *service) ListMyReviews(ctx context.Context) ([]Review, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	return s.repo.ListByUser(ctx, userID)
}

// UpdateReview applies a partial edit to the caller's own review.
func (s *service) UpdateReview(ctx context.Context, reviewID uint, input UpdateReview) (*Review, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if input.Rating == nil && input.Comment == nil {
		return nil, ErrEmptyUpdate
	}
	if input.Rating != nil && !validRating(*input.Rating) {
		return nil, ErrInvalidRating
	}

	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrUnauthorized
	}

	if input.Rating != nil {
		rv.Rating = *input.Rating
	}
	if input.Comment != nil {
		rv.Comment = input.Comment
	}

	return s.repo.Update(ctx, rv)
}

// DeleteReview removes a review; authors may delete their own, admins any.
func (s *service) DeleteReview(ctx context.Context, reviewID uint) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if rv.UserID != userID && !utils.IsAdmin(ctx) {
		return ErrUnauthorized
	}

	return s.repo.Delete(ctx, rv.ID)
}
