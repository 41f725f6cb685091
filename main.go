// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro-boss/config"
	"bistro-boss/controllers"
	"bistro-boss/middleware"
	"bistro-boss/notify"
	"bistro-boss/routes"
	"bistro-boss/store"
	"bistro-boss/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if !dotenv {
		logger.Info("No .env file found. Proceeding with environment variables.")
	}

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 20*time.Second)
	db, err := store.Connect(connectCtx, cfg.MongoURL, cfg.MongoDB, store.Options{Transactions: cfg.MongoTransactions})
	cancelConnect()
	if err != nil {
		logger.WithError(err).Fatal("connect to MongoDB")
	}
	logger.WithField("database", cfg.MongoDB).Info("Pinged your deployment. You successfully connected to MongoDB!")
	if err := db.EnsureIndexes(context.Background()); err != nil {
		logger.WithError(err).Warn("could not create indexes, continuing without them")
	}

	// Email delivery runs on its own workers
	sender := utils.NewEmailSender(cfg.EmailProvider, cfg.EmailAPIKey, cfg.EmailSender, logger)
	dispatcher := notify.NewDispatcher(sender, db, logger, notify.Options{
		Workers:    cfg.EmailWorkers,
		QueueSize:  cfg.EmailQueueSize,
		MaxRetries: cfg.EmailMaxRetries,
	})
	dispatcher.Start()

	var payments controllers.PaymentIntentCreator
	if cfg.StripeSecretKey != "" {
		payments = utils.NewPaymentService(cfg.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY is not set, payment intents are disabled")
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret)
	auth := middleware.NewAuth(tokens, db, cfg.RoleCacheTTL, logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(time.Minute, stopCleanup)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth, limiter, routes.Controllers{
		Auth:    controllers.NewAuthController(tokens, logger),
		Users:   controllers.NewUserController(db, auth, logger),
		Menus:   controllers.NewMenuController(db, logger),
		Reviews: controllers.NewReviewController(db, logger),
		Cart:    controllers.NewCartController(db, logger),
		Orders:  controllers.NewOrderController(db, dispatcher, logger),
		Stats:   controllers.NewStatsController(db, logger),
		Payment: controllers.NewPaymentController(payments, logger),
		Health:  controllers.NewHealthController(db, logger),
	})

	handler := middleware.CORS(cfg.AllowedOrigins(), middleware.RequestLogger(logger)(router))

	server := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server
	go func() {
		logger.Infof("Server is running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown error")
	}
	close(stopCleanup)
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("notification queue not fully drained")
	}
	if err := db.Close(ctx); err != nil {
		logger.WithError(err).Error("disconnect MongoDB")
	}
}
