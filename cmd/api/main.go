package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rolurq/shopify-backend-challenge/internal/auth"
	"github.com/rolurq/shopify-backend-challenge/internal/cache"
	"github.com/rolurq/shopify-backend-challenge/internal/cart"
	"github.com/rolurq/shopify-backend-challenge/internal/catalog"
	"github.com/rolurq/shopify-backend-challenge/internal/config"
	apihttp "github.com/rolurq/shopify-backend-challenge/internal/http"
	"github.com/rolurq/shopify-backend-challenge/internal/outbox"
	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

func main() {
	cfg := config.Load()

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	products := repository.NewMongoProductRepository(mongoDB)
	items := repository.NewMongoCartItemRepository(mongoDB)
	users := repository.NewMongoUserRepository(mongoDB)
	orders := repository.NewMongoOrderRepository(mongoDB)

	if err := repository.CreateIndexes(ctx, items, users); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Multi-document transactions need a replica set; standalone
	// mongod keeps the scoped shape without the guarantees.
	var tx repository.TxRunner
	if cfg.MongoReplicaSet {
		tx = repository.NewMongoTxRunner(mongoDB.Client())
	} else {
		tx = repository.NewNoopTxRunner()
		log.Printf("MONGO_REPLICA_SET not set, running without transactions")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient))

	engine := cart.NewEngine(tx, products, items, orders)
	carts := cart.NewService(engine, cartCache)
	catalogSvc := catalog.NewService(products)
	identity := auth.NewManager(users, cfg.JWTSecret, cfg.JWTExpiry)

	poller := outbox.NewPoller(orders, cfg.KafkaBrokers...)
	pollerCtx, stopPoller := context.WithCancel(ctx)
	go poller.Run(pollerCtx)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cart:           apihttp.NewCartHandler(carts, cfg.RequestTimeout),
		Product:        apihttp.NewProductHandler(catalogSvc, cfg.RequestTimeout),
		User:           apihttp.NewUserHandler(identity, cfg.RequestTimeout),
		AuthMiddleware: identity.Middleware,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		log.Printf("Storefront API listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront API...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	stopPoller()
	poller.Close()
	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
	log.Println("Storefront API stopped")
}
