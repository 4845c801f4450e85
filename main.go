package main

import (
	"context"
	"log"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config:", err)
	}

	zlog := logger.New(cfg.Env)
	defer zlog.Sync()

	mongoClient, db, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("[Storefront] Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect(mongoClient)

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("[Storefront] Failed to connect to Redis:", err)
	}

	productRepo := repository.NewMongoProductRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	if err := orderRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("[Storefront] Failed to ensure order indexes:", err)
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	cartSvc := services.NewCartService(cartRepo, productRepo, zlog)
	checkoutSvc := services.NewCheckoutService(stripeSvc, cfg.PublicBaseURL, zlog)
	inventorySvc := services.NewInventoryService(productRepo, zlog)
	orderSvc := services.NewOrderService(stripeSvc, orderRepo, inventorySvc, zlog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zlog))

	routes.RegisterRoutes(r,
		controllers.NewProductController(productRepo, zlog),
		controllers.NewCartController(cartSvc, zlog),
		controllers.NewCheckoutController(cartSvc, checkoutSvc, zlog),
		controllers.NewOrderController(orderSvc, zlog),
		controllers.NewWebhookController(stripeSvc, orderSvc, zlog),
	)

	log.Println("[Storefront] Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Storefront] Server failed:", err)
	}
}
