package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/arielsonkoue/mboashop-backend/api/routes"
	"github.com/arielsonkoue/mboashop-backend/internal/auth"
	"github.com/arielsonkoue/mboashop-backend/internal/inventory"
	"github.com/arielsonkoue/mboashop-backend/internal/notifications"
	"github.com/arielsonkoue/mboashop-backend/internal/notifier"
	"github.com/arielsonkoue/mboashop-backend/internal/orders"
	"github.com/arielsonkoue/mboashop-backend/internal/restaurant"
	"github.com/arielsonkoue/mboashop-backend/internal/users"
	"github.com/arielsonkoue/mboashop-backend/pkg/config"
	"github.com/arielsonkoue/mboashop-backend/pkg/db"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
	"github.com/arielsonkoue/mboashop-backend/pkg/mail"
	"github.com/arielsonkoue/mboashop-backend/pkg/migrate"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pubsub"
	"github.com/arielsonkoue/mboashop-backend/pkg/redis"
	"github.com/arielsonkoue/mboashop-backend/pkg/whatsapp"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	usersRepo := users.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	dispatcher, err := notifier.NewDispatcher(notifier.Options{
		Mail:           mail.NewClient(cfg.Mail),
		WhatsApp:       whatsapp.NewClient(cfg.WhatsApp),
		Directory:      usersRepo,
		AdminLog:       notificationsRepo,
		Logger:         logg,
		WhatsAppAdmins: cfg.WhatsApp.NotifyAdmins,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		inventory.NewLedger(),
		dispatcher,
		usersRepo,
		orders.ServiceConfig{
			CodePrefix:          cfg.Orders.CodePrefix,
			AdminCancelShipping: cfg.Orders.AdminCancelShipping,
		},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurant.NewService(
		restaurant.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		dispatcher,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			PubSub:        pubsubClient,
			Auth:          authService,
			Orders:        ordersService,
			Restaurant:    restaurantService,
			Notifications: notificationsService,
		}),
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		// Let in-flight notification dispatches settle before exit.
		dispatcher.Wait()
	}

	logg.Info(ctx, "api server shut down gracefully")
}
