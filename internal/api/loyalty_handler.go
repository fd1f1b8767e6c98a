package api

import (
	"net/http"

	"storefront-be/internal/loyalty"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

type LoyaltyHandler struct {
	svc loyalty.Service
}

func NewLoyaltyHandler(svc loyalty.Service) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

func (h *LoyaltyHandler) SubmitVideoReview(c echo.Context) error {
	var input loyalty.NewVideoReview
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if input.VideoURL == "" {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "MISSING_FIELDS", Message: "video_url is required"})
	}

	vr, err := h.svc.SubmitVideoReview(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, vr)
}

func (h *LoyaltyHandler) ListVideoReviews(c echo.Context) error {
	filter := loyalty.VideoReviewFilter{
		Limit:  utils.ParseInt32(c.QueryParam("limit"), 20),
		Offset: utils.ParseInt32(c.QueryParam("offset"), 0),
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := loyalty.VideoStatus(raw)
		filter.Status = &status
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := utils.ToUint(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid user id"})
		}
		filter.UserID = &id
	}

	reviews, err := h.svc.ListVideoReviews(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}

	if reviews == nil {
		reviews = []loyalty.VideoReview{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *LoyaltyHandler) GetVideoReview(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid video review id"})
	}

	vr, err := h.svc.GetVideoReview(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, vr)
}

func (h *LoyaltyHandler) UpdateVideoReview(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid video review id"})
	}

	var input loyalty.UpdateVideoReview
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	vr, err := h.svc.UpdateMyVideoReview(c.Request().Context(), id, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, vr)
}

func (h *LoyaltyHandler) DeleteVideoReview(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid video review id"})
	}

	if err := h.svc.DeleteVideoReview(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type moderationRequest struct {
	Status     loyalty.VideoStatus `json:"status"`
	AdminNotes *string             `json:"admin_notes"`
}

func (h *LoyaltyHandler) ModerateVideoReview(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid video review id"})
	}

	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	vr, err := h.svc.SetVideoReviewStatus(c.Request().Context(), id, req.Status, req.AdminNotes)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, vr)
}

func (h *LoyaltyHandler) CreateCoupon(c echo.Context) error {
	var input loyalty.NewCoupon
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if input.UserEmail == "" {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "MISSING_FIELDS", Message: "user_email is required"})
	}

	coupon, err := h.svc.CreateCoupon(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, coupon)
}

func (h *LoyaltyHandler) ListCoupons(c echo.Context) error {
	limit := utils.ParseInt32(c.QueryParam("limit"), 50)
	offset := utils.ParseInt32(c.QueryParam("offset"), 0)

	var isActive *bool
	switch c.QueryParam("is_active") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}

	coupons, err := h.svc.ListCoupons(c.Request().Context(), isActive, limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	if coupons == nil {
		coupons = []loyalty.Coupon{}
	}
	return c.JSON(http.StatusOK, coupons)
}

func (h *LoyaltyHandler) MyCoupons(c echo.Context) error {
	coupons, err := h.svc.MyCoupons(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	if coupons == nil {
		coupons = []loyalty.Coupon{}
	}
	return c.JSON(http.StatusOK, coupons)
}

type couponValidationResponse struct {
	Valid              bool   `json:"valid"`
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage"`
	RemainingUses      int    `json:"remaining_uses"`
}

func (h *LoyaltyHandler) ValidateCoupon(c echo.Context) error {
	coupon, err := h.svc.ValidateCoupon(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, couponValidationResponse{
		Valid:              true,
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		RemainingUses:      coupon.MaxUses - coupon.UsedCount,
	})
}

func (h *LoyaltyHandler) DeactivateCoupon(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid coupon id"})
	}

	if err := h.svc.DeactivateCoupon(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *LoyaltyHandler) Platforms(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{
		"platforms": h.svc.Platforms(),
	})
}

func (h *LoyaltyHandler) VideoReviewStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]loyalty.VideoStatus{
		"statuses": h.svc.VideoStatuses(),
	})
}
