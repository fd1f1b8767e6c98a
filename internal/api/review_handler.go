package api

import (
	"net/http"

	"storefront-be/internal/review"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var input review.NewReview
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	rv, err := h.svc.CreateReview(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, rv)
}

type productReviewsResponse struct {
	Reviews       []review.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

func (h *ReviewHandler) ListForProduct(c echo.Context) error {
	productID, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid product id"})
	}

	limit := utils.ParseInt32(c.QueryParam("limit"), 20)
	offset := utils.ParseInt32(c.QueryParam("offset"), 0)

	reviews, summary, err := h.svc.ListProductReviews(c.Request().Context(), productID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	if reviews == nil {
		reviews = []review.Review{}
	}
	return c.JSON(http.StatusOK, productReviewsResponse{
		Reviews:       reviews,
		AverageRating: summary.AverageRating,
		ReviewCount:   summary.ReviewCount,
	})
}

func (h *ReviewHandler) ListMine(c echo.Context) error {
	reviews, err := h.svc.ListMyReviews(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	if reviews == nil {
		reviews = []review.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid review id"})
	}

	var input review.UpdateReview
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	rv, err := h.svc.UpdateReview(c.Request().Context(), id, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid review id"})
	}

	if err := h.svc.DeleteReview(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
