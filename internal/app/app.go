// Package app wires configuration into the concrete stores, brokers and
// services used by the binaries.
package app

import (
	"fmt"
	"strings"

	"ecofinds/internal/api"
	"ecofinds/internal/auth"
	"ecofinds/internal/cache"
	"ecofinds/internal/cart"
	"ecofinds/internal/catalog"
	"ecofinds/internal/checkout"
	"ecofinds/internal/config"
	"ecofinds/internal/database"
	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/notifications"
	"ecofinds/internal/payment"
	"ecofinds/internal/products"
	"ecofinds/internal/purchases"
	"ecofinds/internal/store"
	"ecofinds/internal/worker"
	"ecofinds/internal/worker/processors"
)

type App struct {
	Server *api.Server

	logger  *logger.Logger
	closers []func() error
}

// New builds the API application from cfg.
func New(cfg *config.Config, logger *logger.Logger) (*App, error) {
	a := &App{logger: logger}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	c, err := newCache(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if closer, ok := c.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	publisher, err := NewPublisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, publisher.Close)

	simulated := payment.NewSimulated(cfg.PaymentSimulatedDelay, logger)
	processor, err := payment.New(cfg.PaymentProvider, cfg.StripeSecretKey, cfg.StripeCurrency, simulated)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("Payment provider: %s", processor.Name())

	var (
		productStore      = store.NewProducts(db.DB)
		cartStore         = store.NewCarts(db.DB)
		purchaseStore     = store.NewPurchases(db.DB)
		userStore         = store.NewUsers(db.DB)
		notificationStore = store.NewNotifications(db.DB)
	)

	activeProducts := cache.NewProductSource(c, productStore, cfg.CatalogCacheTTL, logger)
	checkoutService := checkout.NewService(cartStore, userStore, purchaseStore, processor, publisher, logger)

	a.Server = api.New(cfg, logger, api.Services{
		Auth:          auth.NewService(userStore, c, cfg.JWTSecret, cfg.JWTTTL, logger),
		Products:      products.NewService(productStore, activeProducts, publisher, logger),
		Catalog:       catalog.NewEngine(activeProducts, productStore, cfg.CatalogFetchTimeout),
		Cart:          cart.NewService(cartStore, productStore, logger),
		Checkout:      checkout.NewManager(checkoutService, c, cfg.CheckoutSessionTTL),
		Purchases:     purchases.NewService(purchaseStore),
		Notifications: notifications.NewService(notificationStore),
		Payments:      processor,
		DemoPayments:  simulated,
	})

	return a, nil
}

// Close releases resources in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Failed to close resource: %v", err)
		}
	}
	a.closers = nil
}

// NewWorker builds the notification worker. It needs a broker; EVENT_BROKER
// none is rejected.
func NewWorker(cfg *config.Config, logger *logger.Logger) (*worker.Worker, func(), error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	consumer, err := NewConsumer(cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	notifier := notifications.NewService(store.NewNotifications(db.DB))
	w := worker.New(consumer, processors.NewEventProcessor(notifier, logger), logger)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database: %v", err)
		}
	}
	return w, cleanup, nil
}

func NewPublisher(cfg *config.Config) (events.Publisher, error) {
	switch strings.ToLower(cfg.EventBroker) {
	case "", "none":
		return events.NopPublisher{}, nil
	case "kafka":
		return events.NewKafkaPublisher(brokers(cfg.KafkaBrokers), cfg.KafkaTopic), nil
	case "rabbitmq":
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			return nil, err
		}
		return events.NewRabbitPublisher(pool), nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}

func NewConsumer(cfg *config.Config, logger *logger.Logger) (events.Consumer, error) {
	switch strings.ToLower(cfg.EventBroker) {
	case "kafka":
		return events.NewKafkaConsumer(brokers(cfg.KafkaBrokers), cfg.KafkaTopic, cfg.KafkaGroupID, logger), nil
	case "rabbitmq":
		return events.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQQueue, logger)
	case "", "none":
		return nil, fmt.Errorf("the worker needs EVENT_BROKER set to kafka or rabbitmq")
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}

func newCache(cfg *config.Config, logger *logger.Logger) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(cfg.RedisURL)
}

func brokers(list string) []string {
	var out []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
