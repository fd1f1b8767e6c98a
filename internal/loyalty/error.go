package loyalty

import "errors"

var (
	ErrVideoReviewNotFound = errors.New("video review not found")
	ErrInvalidPlatform     = errors.New("invalid social media platform")
	ErrInvalidVideoStatus  = errors.New("invalid video review status")
	ErrVideoReviewLocked   = errors.New("video review has already been moderated")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInvalid       = errors.New("invalid or expired coupon code")
	ErrEmptyUpdate         = errors.New("no fields to update")
	ErrUnauthorized        = errors.New("unauthorized")
)
