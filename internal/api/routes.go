package api

import (
	"net/http"

	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every handler under the echo instance. Route
// ordering matters: the static /orders segments must precede /orders/:id
// so "my-orders" is never parsed as an order id.
func RegisterRoutes(e *echo.Echo, orders *OrderHandler, products *ProductHandler, users *UserHandler, reviews *ReviewHandler, loyalty *LoyaltyHandler) {
	e.Use(
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		middleware.Auth,
		middleware.RateLimit,
	)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	u := e.Group("/users")
	u.POST("/register", users.Register)
	u.POST("/login", users.Login)
	u.GET("/me", users.Me, middleware.RequireAuth)

	p := e.Group("/products")
	p.GET("", products.List)
	p.GET("/:id", products.Get)
	p.GET("/:id/reviews", reviews.ListForProduct)
	p.POST("", products.Create, middleware.RequireAuth, middleware.RequireAdmin)
	p.PUT("/:id", products.Update, middleware.RequireAuth, middleware.RequireAdmin)
	p.DELETE("/:id", products.Deactivate, middleware.RequireAuth, middleware.RequireAdmin)

	o := e.Group("/orders")
	o.POST("", orders.Create) // guest checkout stays open
	o.GET("/my-orders", orders.ListMine, middleware.RequireAuth)
	o.GET("/all", orders.ListAll, middleware.RequireAuth, middleware.RequireAdmin)
	o.GET("/payment-methods", orders.PaymentMethods)
	o.GET("/statuses", orders.Statuses)
	o.GET("/:id", orders.Get) // guest lookup via contact_email query
	o.PATCH("/:id/status", orders.UpdateStatus, middleware.RequireAuth)

	r := e.Group("/reviews", middleware.RequireAuth)
	r.POST("", reviews.Create)
	r.GET("/my-reviews", reviews.ListMine)
	r.PUT("/:id", reviews.Update)
	r.DELETE("/:id", reviews.Delete)

	l := e.Group("/loyalty")
	l.GET("/platforms", loyalty.Platforms)
	l.GET("/video-review-statuses", loyalty.VideoReviewStatuses)
	l.GET("/video-reviews", loyalty.ListVideoReviews)
	l.GET("/video-reviews/:id", loyalty.GetVideoReview)
	l.POST("/video-reviews", loyalty.SubmitVideoReview, middleware.RequireAuth)
	l.PUT("/video-reviews/:id", loyalty.UpdateVideoReview, middleware.RequireAuth)
	l.DELETE("/video-reviews/:id", loyalty.DeleteVideoReview, middleware.RequireAuth)
	l.PUT("/video-reviews/:id/status", loyalty.ModerateVideoReview, middleware.RequireAuth, middleware.RequireAdmin)
	l.POST("/coupons", loyalty.CreateCoupon, middleware.RequireAuth, middleware.RequireAdmin)
	l.GET("/coupons", loyalty.ListCoupons, middleware.RequireAuth, middleware.RequireAdmin)
	l.GET("/coupons/my", loyalty.MyCoupons, middleware.RequireAuth)
	l.GET("/coupons/validate/:code", loyalty.ValidateCoupon, middleware.RequireAuth)
	l.PUT("/coupons/:id/deactivate", loyalty.DeactivateCoupon, middleware.RequireAuth, middleware.RequireAdmin)
}
