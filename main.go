// File: growthyari/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growthyari/config"
	"growthyari/cron"
	"growthyari/database"
	schedulerRepo "growthyari/database/repository/scheduler"
	settingsRepo "growthyari/database/repository/settings"
	slotRepo "growthyari/database/repository/slot"
	"growthyari/handlers"
	"growthyari/middleware"
	"growthyari/routes"
	"growthyari/services/availability"
	"growthyari/services/notification"
	"growthyari/services/scheduling"
	"growthyari/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitEventsClient()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetEventsClient()},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	settings := settingsRepo.NewMongoSettingsRepo()
	scheduler := schedulerRepo.NewMongoSchedulerRepo()

	for _, ensure := range []func() error{
		slots.EnsureIndexes,
		settings.EnsureIndexes,
		scheduler.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	publisher := notification.NewRedisEventPublisher(utils.GetEventsClient())
	defer publisher.Close()

	availabilityService := &availability.DefaultAvailabilityService{
		Slots:    slots,
		Settings: settings,
	}
	schedulingService := &scheduling.DefaultSchedulingService{
		Repo:     scheduler,
		Settings: settings,
		Events:   publisher,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	sessionHandler := handlers.NewSessionHandler(schedulingService)

	// Register routes with the assembled handlers.
	routes.RegisterRoutes(router, availabilityHandler, sessionHandler)

	// Background worker: reminder delivery and the completion sweep.
	cron.InitSessionWorker(schedulingService)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
