// File: smartpark/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartpark/config"
	"smartpark/cron"
	"smartpark/database"
	bookingRepoPkg "smartpark/database/repository/booking"
	floorRepoPkg "smartpark/database/repository/floor"
	settlementRepoPkg "smartpark/database/repository/settlement"
	txnRepoPkg "smartpark/database/repository/transaction"
	userRepoPkg "smartpark/database/repository/user"
	"smartpark/handlers"
	"smartpark/middleware"
	"smartpark/routes"
	"smartpark/services/notification"
	"smartpark/services/parking"
	"smartpark/services/tasks"
	"smartpark/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	floorRepo := floorRepoPkg.NewMongoFloorRepo()
	txnRepo := txnRepoPkg.NewMongoTxnRepo()
	settlementRepo := settlementRepoPkg.NewMongoSettlementRepo()

	// services.
	notificationService := notification.NewLogNotificationService(logger)

	reminderQueueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	reminderScheduler := tasks.NewScheduler(reminderQueueOpt, logger)
	defer reminderScheduler.Close()

	parkingService := &parking.DefaultParkingService{
		Bookings:  bookingRepo,
		Users:     userRepo,
		Floors:    floorRepo,
		Ledger:    settlementRepo,
		Txns:      txnRepo,
		Notifier:  notificationService,
		Reminders: reminderScheduler,
		Locker:    parking.NewRedisFloorLocker(utils.GetLockClient()),
		Window:    parking.NewRedisPaymentWindow(utils.GetCacheClient()),
		Logger:    logger,
	}

	// background workers.
	cron.InitReminderWorker(notificationService)
	cronCtx, cronCancel := context.WithCancel(context.Background())
	defer cronCancel()
	go cron.StartMaintenanceCron(cronCtx, bookingRepo)

	// handlers.
	bookingHandler := handlers.NewBookingHandler(parkingService, nil, logger)
	kioskHandler := handlers.NewKioskHandler(parkingService, logger)
	walletHandler := handlers.NewWalletHandler(parkingService, userRepo, txnRepo, logger)
	floorHandler := handlers.NewFloorHandler(parkingService, logger)
	userHandler := handlers.NewUserHandler(userRepo, logger)

	routes.RegisterRoutes(router, &routes.HandlerBundle{
		Booking: bookingHandler,
		Kiosk:   kioskHandler,
		Wallet:  walletHandler,
		Floor:   floorHandler,
		User:    userHandler,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
