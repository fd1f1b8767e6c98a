package order

import (
	"context"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/notification"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, input CheckoutInput) (*Order, error)
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	GetGuestOrder(ctx context.Context, orderID uint, contactEmail string) (*Order, error)
	ListMyOrders(ctx context.Context, limit, offset int32) ([]*Order, error)
	ListAllOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, next OrderStatus) (*Order, error)
	PaymentMethods() []PaymentMethod
	Statuses() []OrderStatus
}

// CouponRedeemer applies loyalty coupons at checkout. Validation runs
// before the order is priced; Redeem records the usage afterwards.
type CouponRedeemer interface {
	ValidateForUser(ctx context.Context, code string, userID uint) (discountPercent int, couponID uint, err error)
	Redeem(ctx context.Context, couponID, orderID uint, discountAmount float64) error
}

type service struct {
	repo      Repository
	publisher notification.Publisher
	keys      KeyReserver
	coupons   CouponRedeemer
}

// NewService wires the order workflow. keys may be nil when no
// idempotency store is configured; placements then run unguarded.
// coupons may be nil when the loyalty module is not wired; checkouts
// carrying a coupon code are then rejected.
func NewService(repo Repository, publisher notification.Publisher, keys KeyReserver, coupons CouponRedeemer) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		keys:      keys,
		coupons:   coupons,
	}
}

func normalizePage(limit, offset int32) (int32, int32) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *service) CreateOrder(ctx context.Context, input CheckoutInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("item_count", len(input.Items)),
		zap.Bool("guest", input.UserID == nil),
	)

	log.Info("order placement started")

	// Optional duplicate-submission guard.
	reserved := false
	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" && s.keys != nil {
		ok, err := s.keys.Reserve(ctx, *input.IdempotencyKey)
		if err != nil {
			log.Error("failed to reserve idempotency key", zap.Error(err))
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
		reserved = true
	}

	release := func() {
		if reserved {
			if err := s.keys.Release(ctx, *input.IdempotencyKey); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
		}
	}

	// 1. Validator read pass: prices and stock, no side effects.
	resolved, err := s.repo.ResolveItems(ctx, input.Items)
	if err != nil {
		release()
		return nil, err
	}

	// 2. Pure assembly of the aggregate.
	o, err := AssembleOrder(resolved, input)
	if err != nil {
		release()
		return nil, err
	}

	// Optional loyalty coupon: validated against the caller before the
	// order is persisted, redeemed against it after.
	var couponID uint
	var discountAmount float64
	if input.CouponCode != nil && *input.CouponCode != "" {
		if s.coupons == nil {
			release()
			return nil, ErrCouponNotAccepted
		}

		var callerID uint
		if input.UserID != nil {
			callerID = *input.UserID
		}

		pct, id, err := s.coupons.ValidateForUser(ctx, *input.CouponCode, callerID)
		if err != nil {
			release()
			return nil, err
		}

		couponID = id
		discountAmount = o.TotalAmount * float64(pct) / 100
		o.TotalAmount -= discountAmount
	}

	// 3. Transaction boundary: guarded decrements + persistence.
	if err := s.repo.PlaceOrder(ctx, o); err != nil {
		release()
		return nil, err
	}

	// Usage bookkeeping; the order stands even if recording fails.
	if couponID != 0 {
		if err := s.coupons.Redeem(ctx, couponID, o.ID, discountAmount); err != nil {
			log.Warn("failed to record coupon redemption",
				zap.Uint("order_id", o.ID),
				zap.Uint("coupon_id", couponID),
				zap.Error(err),
			)
		}
	}

	// Out-of-band notification; never fails the placement.
	if err := s.publisher.PublishOrderCreated(ctx, o.ID, o.ContactEmail, o.TotalAmount); err != nil {
		log.Warn("failed to publish order created event",
			zap.Uint("order_id", o.ID),
			zap.Error(err),
		)
	}

	log.Info("order placement completed",
		zap.Uint("order_id", o.ID),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return o, nil
}

// canView implements order visibility: admins see everything, owners
// see their own orders, and guest orders are visible to an
// authenticated requester whose account email matches the order's
// contact email.
func canView(ctx context.Context, o *Order) bool {
	if utils.IsAdmin(ctx) {
		return true
	}

	userID, authenticated := utils.GetUserIDFromContext(ctx)
	if !authenticated {
		return false
	}

	if o.UserID != nil {
		return *o.UserID == userID
	}

	email := utils.GetUserEmailFromContext(ctx)
	return email != "" && strings.EqualFold(email, o.ContactEmail)
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !canView(ctx, o) {
		return nil, ErrUnauthorized
	}

	return o, nil
}

// GetGuestOrder is the unauthenticated lookup path: a guest order is
// returned only when the supplied contact email matches the order's.
// Orders tied to an account stay behind authentication.
func (s *service) GetGuestOrder(ctx context.Context, orderID uint, contactEmail string) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != nil || contactEmail == "" || !strings.EqualFold(contactEmail, o.ContactEmail) {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) ListMyOrders(ctx context.Context, limit, offset int32) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	limit, offset = normalizePage(limit, offset)
	email := utils.GetUserEmailFromContext(ctx)

	orders, err := s.repo.FetchUserOrders(ctx, userID, email, limit, offset)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, orders)
}

func (s *service) ListAllOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrUnauthorized
	}

	limit, offset = normalizePage(limit, offset)

	orders, err := s.repo.FetchAllOrders(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, orders)
}

func (s *service) attachItems(ctx context.Context, orders []*Order) ([]*Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	items, err := s.repo.FetchOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		o.Items = items[o.ID]
	}

	return orders, nil
}

// UpdateOrderStatus authorizes the transition, then delegates the state
// graph check and any compensating restock to the repository's
// transaction. Admins may perform any legal transition; owners may only
// cancel an order that has not shipped.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uint, next OrderStatus) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Uint("order_id", orderID),
		zap.String("next_status", string(next)),
	)

	if !next.Valid() {
		return nil, ErrInvalidStatusTransition
	}

	current, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !utils.IsAdmin(ctx) {
		if next != StatusCancelled || !canView(ctx, current) {
			return nil, ErrUnauthorized
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishOrderStatusChanged(
		ctx, updated.ID, updated.ContactEmail,
		string(current.Status), string(updated.Status),
	); err != nil {
		log.Warn("failed to publish status change event", zap.Error(err))
	}

	return updated, nil
}

func (s *service) PaymentMethods() []PaymentMethod {
	return PaymentMethods()
}

func (s *service) Statuses() []OrderStatus {
	return OrderStatuses()
}
