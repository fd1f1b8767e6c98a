package api

import (
	"net/http"

	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(c echo.Context) error {
	opts := product.ListOptions{
		Limit:  utils.ParseInt32(c.QueryParam("limit"), 20),
		Offset: utils.ParseInt32(c.QueryParam("offset"), 0),
	}
	if category := c.QueryParam("category"); category != "" {
		opts.Category = &category
	}
	if search := c.QueryParam("search"); search != "" {
		opts.Search = &search
	}

	products, err := h.svc.List(c.Request().Context(), opts)
	if err != nil {
		return writeError(c, err)
	}

	if products == nil {
		products = []product.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid product id"})
	}

	p, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var input product.NewProduct
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	if input.Name == "" {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "MISSING_FIELDS", Message: "name is required"})
	}

	p, err := h.svc.Create(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid product id"})
	}

	var input product.UpdateProduct
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	p, err := h.svc.Update(c.Request().Context(), id, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Deactivate(c echo.Context) error {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Code: "INVALID_ID", Message: "invalid product id"})
	}

	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
