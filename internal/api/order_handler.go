package api

import (
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type checkoutRequest struct {
	Items               []order.LineItemInput `json:"items"`
	ShippingAddress     string                `json:"shipping_address"`
	ContactName         string                `json:"contact_name"`
	ContactEmail        string                `json:"contact_email"`
	ContactPhone        *string               `json:"contact_phone"`
	PaymentMethod       order.PaymentMethod   `json:"payment_method"`
	SpecialInstructions *string               `json:"special_instructions"`
	CouponCode          *string               `json:"coupon_code"`
}

// Create places an order. Works for both authenticated and guest
// callers; an Idempotency-Key header guards against double submission.
func (h *OrderHandler) Create(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	if req.ShippingAddress == "" || req.ContactName == "" || req.ContactEmail == "" {
		return c.JSON(http.StatusBadRequest, ErrorBody{
			Code:    "MISSING_FIELDS",
			Message: "shipping_address, contact_name and contact_email are required",
		})
	}

	ctx := c.Request().Context()

	input := order.CheckoutInput{
		Items:               req.Items,
		ShippingAddress:     req.ShippingAddress,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		CouponCode:          req.CouponCode,
	}

	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		input.UserID = &userID
	}
	if key := c.Request().Header.Get("Idempotency-Key"); key != "" {
		input.IdempotencyKey = &key
	}

	o, err := h.svc.CreateOrder(ctx, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, order.ToResponse(o))
}

// Get looks up a single order. Authenticated callers go through the
// ownership rules; anonymous callers may fetch a guest order by passing
// the contact_email it was placed with.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid order id"})
	}

	ctx := c.Request().Context()

	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		contactEmail := c.QueryParam("contact_email")
		if contactEmail == "" {
			return c.JSON(http.StatusUnauthorized, ErrorBody{
				Code:    "UNAUTHORIZED",
				Message: "authenticate or supply the contact_email the order was placed with",
			})
		}

		o, err := h.svc.GetGuestOrder(ctx, id, contactEmail)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, order.ToResponse(o))
	}

	o, err := h.svc.GetOrder(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order.ToResponse(o))
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	limit := utils.ParseInt32(c.QueryParam("limit"), 20)
	offset := utils.ParseInt32(c.QueryParam("offset"), 0)

	orders, err := h.svc.ListMyOrders(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order.ToResponseList(orders))
}

func (h *OrderHandler) ListAll(c echo.Context) error {
	limit := utils.ParseInt32(c.QueryParam("limit"), 50)
	offset := utils.ParseInt32(c.QueryParam("offset"), 0)

	var status *order.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := order.OrderStatus(raw)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_STATUS", Message: "unknown order status"})
		}
		status = &s
	}

	orders, err := h.svc.ListAllOrders(c.Request().Context(), status, limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order.ToResponseList(orders))
}

type statusUpdateRequest struct {
	Status order.OrderStatus `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid order id"})
	}

	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	o, err := h.svc.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order.ToResponse(o))
}

func (h *OrderHandler) PaymentMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]order.PaymentMethod{
		"payment_methods": h.svc.PaymentMethods(),
	})
}

func (h *OrderHandler) Statuses(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]order.OrderStatus{
		"statuses": h.svc.Statuses(),
	})
}
