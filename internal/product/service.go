package product

import (
	"context"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error)
	Deactivate(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	// Non-admin callers only ever see purchasable products.
	if !utils.IsAdmin(ctx) {
		opts.OnlyActive = true
	}

	return s.repo.List(ctx, opts)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.IsActive && !utils.IsAdmin(ctx) {
		return nil, ErrProductNotFound
	}

	return p, nil
}

func (s *service) Create(ctx context.Context, input NewProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}

	if input.OriginalPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.DiscountPrice != nil && *input.DiscountPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.Create(ctx, input)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}

	if input.OriginalPrice != nil && *input.OriginalPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.DiscountPrice != nil && *input.DiscountPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	return s.repo.Update(ctx, id, input)
}

func (s *service) Deactivate(ctx context.Context, id uint) error {
	if !utils.IsAdmin(ctx) {
		return ErrUnauthorized
	}
	return s.repo.Deactivate(ctx, id)
}
