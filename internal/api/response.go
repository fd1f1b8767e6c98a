package api

import (
	"errors"
	"net/http"

	"storefront-be/internal/loyalty"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/review"
	"storefront-be/internal/user"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform error envelope. Code is a stable machine
// string; clients switch on it rather than on the message text.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	status int
	code   string
}

var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{order.ErrProductNotFound, errorMapping{http.StatusNotFound, "PRODUCT_NOT_FOUND"}},
	{order.ErrProductInactive, errorMapping{http.StatusConflict, "PRODUCT_INACTIVE"}},
	{order.ErrInsufficientStock, errorMapping{http.StatusConflict, "INSUFFICIENT_STOCK"}},
	{order.ErrInvalidQuantity, errorMapping{http.StatusBadRequest, "INVALID_QUANTITY"}},
	{order.ErrEmptyOrder, errorMapping{http.StatusBadRequest, "EMPTY_ORDER"}},
	{order.ErrInvalidPaymentMethod, errorMapping{http.StatusBadRequest, "INVALID_PAYMENT_METHOD"}},
	{order.ErrInvalidStatusTransition, errorMapping{http.StatusConflict, "INVALID_STATUS_TRANSITION"}},
	{order.ErrOrderNotFound, errorMapping{http.StatusNotFound, "ORDER_NOT_FOUND"}},
	{order.ErrUnauthorized, errorMapping{http.StatusForbidden, "UNAUTHORIZED"}},
	{order.ErrTransactionConflict, errorMapping{http.StatusConflict, "TRANSACTION_CONFLICT"}},
	{order.ErrDuplicateRequest, errorMapping{http.StatusConflict, "DUPLICATE_REQUEST"}},
	{order.ErrCouponNotAccepted, errorMapping{http.StatusBadRequest, "COUPON_NOT_ACCEPTED"}},

	{product.ErrProductNotFound, errorMapping{http.StatusNotFound, "PRODUCT_NOT_FOUND"}},
	{product.ErrInvalidPrice, errorMapping{http.StatusBadRequest, "INVALID_PRICE"}},
	{product.ErrInvalidStock, errorMapping{http.StatusBadRequest, "INVALID_STOCK"}},
	{product.ErrUnauthorized, errorMapping{http.StatusForbidden, "UNAUTHORIZED"}},

	{user.ErrEmailExists, errorMapping{http.StatusConflict, "EMAIL_EXISTS"}},
	{user.ErrUsernameExists, errorMapping{http.StatusConflict, "USERNAME_EXISTS"}},
	{user.ErrUserNotFound, errorMapping{http.StatusNotFound, "USER_NOT_FOUND"}},
	{user.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "INVALID_CREDENTIALS"}},
	{user.ErrUserInactive, errorMapping{http.StatusForbidden, "USER_INACTIVE"}},

	{review.ErrReviewNotFound, errorMapping{http.StatusNotFound, "REVIEW_NOT_FOUND"}},
	{review.ErrProductNotFound, errorMapping{http.StatusNotFound, "PRODUCT_NOT_FOUND"}},
	{review.ErrInvalidRating, errorMapping{http.StatusBadRequest, "INVALID_RATING"}},
	{review.ErrAlreadyReviewed, errorMapping{http.StatusConflict, "ALREADY_REVIEWED"}},
	{review.ErrEmptyUpdate, errorMapping{http.StatusBadRequest, "EMPTY_UPDATE"}},
	{review.ErrUnauthorized, errorMapping{http.StatusForbidden, "UNAUTHORIZED"}},

	{loyalty.ErrVideoReviewNotFound, errorMapping{http.StatusNotFound, "VIDEO_REVIEW_NOT_FOUND"}},
	{loyalty.ErrInvalidPlatform, errorMapping{http.StatusBadRequest, "INVALID_PLATFORM"}},
	{loyalty.ErrInvalidVideoStatus, errorMapping{http.StatusBadRequest, "INVALID_VIDEO_STATUS"}},
	{loyalty.ErrVideoReviewLocked, errorMapping{http.StatusConflict, "VIDEO_REVIEW_LOCKED"}},
	{loyalty.ErrCouponNotFound, errorMapping{http.StatusNotFound, "COUPON_NOT_FOUND"}},
	{loyalty.ErrCouponInvalid, errorMapping{http.StatusBadRequest, "COUPON_INVALID"}},
	{loyalty.ErrEmptyUpdate, errorMapping{http.StatusBadRequest, "EMPTY_UPDATE"}},
	{loyalty.ErrUnauthorized, errorMapping{http.StatusForbidden, "UNAUTHORIZED"}},
}

// writeError translates a service error into the JSON envelope. Unknown
// errors become an opaque 500 so internals never leak to clients.
func writeError(c echo.Context, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.JSON(m.mapping.status, ErrorBody{
				Code:    m.mapping.code,
				Message: err.Error(),
			})
		}
	}

	return c.JSON(http.StatusInternalServerError, ErrorBody{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}
