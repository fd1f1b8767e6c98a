package review

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
	ErrEmptyUpdate     = errors.New("no fields to update")
	ErrUnauthorized    = errors.New("unauthorized")
)
