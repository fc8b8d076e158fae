package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant-order-services/internal/analytics"
	"restaurant-order-services/internal/config"
	"restaurant-order-services/internal/db"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/feedback"
	httpapi "restaurant-order-services/internal/http"
	"restaurant-order-services/internal/http/handlers"
	"restaurant-order-services/internal/inventory"
	"restaurant-order-services/internal/invoice"
	"restaurant-order-services/internal/kitchen"
	"restaurant-order-services/internal/logger"
	"restaurant-order-services/internal/menu"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/orders"
	"restaurant-order-services/internal/payments"
	"restaurant-order-services/internal/queue"
	"restaurant-order-services/internal/reservations"
	"restaurant-order-services/internal/storage"
	"restaurant-order-services/internal/store"
	"restaurant-order-services/internal/tables"
	"restaurant-order-services/internal/users"
	"restaurant-order-services/internal/utils"
	"restaurant-order-services/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Warn("JWT_SECRET is empty; using an insecure development secret")
		cfg.JWTSecret = "development-only-secret"
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var st store.Store
	if cfg.UsesMemoryStore() {
		log.Warn("using in-memory store; data is lost on restart")
		st = store.NewMemory()
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				log.Fatal("database migration failed", zap.Error(err))
			}
		}
		st = store.NewPostgres(pool)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Interface values stay nil unless the bucket is configured.
	var photos menu.ObjectStore
	var archive invoice.Archive
	if cfg.ObjectStore.Enabled() {
		objects, err := storage.NewObjectStore(ctx, cfg.ObjectStore)
		if err != nil {
			if cfg.IsProduction() {
				log.Fatal("object store init failed", zap.Error(err))
			}
			log.Warn("object store init failed; photo uploads and invoice archiving disabled", zap.Error(err))
		} else {
			photos = objects
			archive = objects
		}
	} else {
		log.Info("object store disabled (OBJECT_STORE_BUCKET is empty)")
	}

	restaurant, err := config.LoadRestaurant(cfg.RestaurantProfile)
	if err != nil {
		log.Fatal("restaurant profile failed", zap.Error(err))
	}
	loc := utils.LoadLocation(cfg.Timezone)

	queueClient := connectQueue(log, cfg)
	if queueClient != nil {
		defer queueClient.Close()
	}
	var publisher events.Publisher = events.Noop{}
	if queueClient != nil {
		publisher = queue.EventPublisher{Client: queueClient}
	}

	kitchenSvc := kitchen.NewService(st, publisher, m, log)
	hub := ws.NewKitchenHub(kitchenSvc, cfg.JWTSecret, cfg.WSHeartbeatInterval, log)
	kitchenSvc.Notifier = hub

	userSvc := users.NewService(st, cfg.JWTSecret, time.Duration(cfg.JWTExpirySeconds)*time.Second, log)
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}

	h := &handlers.Handler{
		Logger:       log,
		Config:       cfg,
		Tables:       tables.NewService(st),
		Menu:         menu.NewService(st, photos, log),
		Orders:       orders.NewService(st, publisher, m, log),
		Payments:     payments.NewService(st, publisher, m, log),
		Kitchen:      kitchenSvc,
		Inventory:    inventory.NewService(st, publisher, m, log),
		Reservations: reservations.NewService(st),
		Feedback:     feedback.NewService(st),
		Analytics:    analytics.NewService(st, loc),
		Invoices:     invoice.NewService(st, restaurant, archive, log),
		Users:        userSvc,
	}

	if cfg.KitchenAutoTicket {
		switch {
		case queueClient == nil:
			log.Warn("kitchen auto ticket needs RABBITMQ_URL; disabled")
		case cfg.RabbitMQWorkerMode != "daemon":
			log.Info("kitchen ticket worker disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
		default:
			log.Info("kitchen ticket worker enabled", zap.String("queue", queue.KitchenTicketsQueue))
			go func() {
				if err := queue.RunKitchenTicketWorker(ctx, queueClient, kitchenSvc, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("kitchen ticket worker stopped", zap.Error(err))
				}
			}()
		}
	}

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(h, log, cfg, m, hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("restaurant api ready", zap.String("base", "/api"))
		log.Info("kitchen display ready", zap.String("path", "/ws/kitchen"))
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}

// connectQueue dials RabbitMQ and declares the topology. Outside production a
// broker failure degrades to running without events.
func connectQueue(log *zap.Logger, cfg config.Config) *queue.Client {
	if cfg.RabbitMQURL == "" {
		log.Info("event publishing disabled (RABBITMQ_URL is empty)")
		return nil
	}

	fail := func(msg string, err error, qc *queue.Client) *queue.Client {
		if cfg.IsProduction() {
			log.Fatal(msg, zap.Error(err))
		}
		log.Warn(msg+"; continuing without events", zap.Error(err))
		if qc != nil {
			_ = qc.Close()
		}
		return nil
	}

	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		return fail("rabbitmq connection failed", err, nil)
	}
	if err := queue.EnsureEventsExchange(qc); err != nil {
		return fail("rabbitmq exchange failed", err, qc)
	}
	if cfg.KitchenAutoTicket {
		if err := queue.EnsureKitchenTicketsTopology(qc); err != nil {
			return fail("rabbitmq kitchen topology failed", err, qc)
		}
	}
	log.Info("rabbitmq enabled", zap.String("exchange", queue.EventsExchange))
	return qc
}
