package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-be/internal/product"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) List(ctx context.Context, opts product.ListOptions) ([]product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *mockProductService) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProductService) Create(ctx context.Context, input product.NewProduct) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, id uint, input product.UpdateProduct) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProductService) Deactivate(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func newProductContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProductHandler_List(t *testing.T) {
	t.Run("FiltersForwarded", func(t *testing.T) {
		svc := new(mockProductService)
		h := NewProductHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(opts product.ListOptions) bool {
			return opts.Category != nil && *opts.Category == "mugs" &&
				opts.Search != nil && *opts.Search == "blue" &&
				opts.Limit == 10
		})).Return([]product.Product{{ID: 1, Name: "Blue Mug"}}, nil)

		c, rec := newProductContext(http.MethodGet, "/products?category=mugs&search=blue&limit=10", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)

		var products []product.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 1)
	})

	t.Run("EmptyResultIsEmptyArray", func(t *testing.T) {
		svc := new(mockProductService)
		h := NewProductHandler(svc)

		svc.On("List", mock.Anything, mock.Anything).Return([]product.Product(nil), nil)

		c, rec := newProductContext(http.MethodGet, "/products", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestProductHandler_Get(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductHandler(svc)

	svc.On("GetByID", mock.Anything, uint(99)).Return(nil, product.ErrProductNotFound)

	c, rec := newProductContext(http.MethodGet, "/products/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decodeError(t, rec).Code)
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("NonAdminForbidden", func(t *testing.T) {
		svc := new(mockProductService)
		h := NewProductHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, product.ErrUnauthorized)

		c, rec := newProductContext(http.MethodPost, "/products",
			`{"name": "Mug", "original_price": 10, "stock_quantity": 5}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		svc := new(mockProductService)
		h := NewProductHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, product.ErrInvalidPrice)

		c, rec := newProductContext(http.MethodPost, "/products",
			`{"name": "Mug", "original_price": -1}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PRICE", decodeError(t, rec).Code)
	})
}
