package main

import (
	"storefront-be/internal/api"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/loyalty"
	"storefront-be/internal/notification"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/review"
	"storefront-be/internal/user"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	var publisher notification.Publisher = notification.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kp := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	} else {
		log.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	var keys order.KeyReserver
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		keys = order.NewRedisKeyReserver(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, idempotency guard disabled")
	}

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	loyaltyRepo := loyalty.NewRepository(database)
	loyaltySvc := loyalty.NewService(loyaltyRepo, userRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, publisher, keys, loyaltySvc)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo)

	e := echo.New()
	e.HideBanner = true

	api.RegisterRoutes(e,
		api.NewOrderHandler(orderSvc),
		api.NewProductHandler(productSvc),
		api.NewUserHandler(userSvc),
		api.NewReviewHandler(reviewSvc),
		api.NewLoyaltyHandler(loyaltySvc),
	)

	log.Info("server starting", zap.String("port", cfg.AppPort))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
