package cmd

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rakhulsr/mellomelt/app/configs"
	"github.com/Rakhulsr/mellomelt/app/db/seeders"
	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/messaging"
	"github.com/Rakhulsr/mellomelt/app/messaging/kafka"
	"github.com/Rakhulsr/mellomelt/app/middlewares"
	"github.com/Rakhulsr/mellomelt/app/models/migrations"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/Rakhulsr/mellomelt/app/routes"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/Rakhulsr/mellomelt/app/utils/renderer"
	"github.com/Rakhulsr/mellomelt/app/utils/sessions"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// Serve wires the storefront and blocks until ctx is cancelled, then shuts
// the server down and flushes pending notifications.
func Serve(ctx context.Context, env configs.ENV, logger *zap.Logger, migrate bool) error {
	storeCfg, err := configs.LoadStoreConfig(env.StoreConfig, logger)
	if err != nil {
		return err
	}
	pricing, err := storeCfg.CalcPricing()
	if err != nil {
		return err
	}

	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	if migrate {
		if err := migrations.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	catalog, err := repositories.NewProductRepository(seeders.Products(), seeders.Categories())
	if err != nil {
		return err
	}

	publisher := newPublisher(env, logger)
	if c, ok := publisher.(io.Closer); ok {
		defer c.Close()
	}

	var mailer services.EmailSender
	mailCfg := services.Config{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	}
	if mailCfg.Enabled() {
		mailer = services.NewMailer(mailCfg)
	} else {
		logger.Info("Serve: EMAIL_HOST not set, email notifications disabled")
	}
	notifier := services.NewNotifier(publisher, mailer, storeCfg.Store.Name, storeCfg.Store.SupportEmail, logger)
	defer notifier.Wait()

	validate := helpers.NewValidator()
	users := repositories.NewUserRepository(db)
	orders := services.NewOrderService(db,
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(),
		repositories.NewOrderCustomerRepository())

	registry := services.NewSessionRegistry(
		func(sessionID string) repositories.CartStorage { return repositories.NewCartRepository(db, sessionID) },
		catalog,
		services.CheckoutConfig{
			Placer:        orders,
			Notifier:      notifier,
			Validator:     validate,
			Pricing:       pricing,
			SubmitTimeout: storeCfg.Checkout.SubmitTimeout,
			Logger:        logger,
		},
		storeCfg.Session.IdleTTL,
		logger,
	)

	keys, generated, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("Serve: APP_AUTH_KEY/APP_ENC_KEY not set, using throwaway session keys")
	}

	rnd := renderer.New(!env.IsProduction())
	limiter := middlewares.NewRateLimiter(storeCfg.RateLimit.PerSecond, storeCfg.RateLimit.Burst, rnd, logger)

	deps := routes.Dependencies{
		Render:   rnd,
		Logger:   logger,
		Sessions: sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey, env.IsProduction()),
		Registry: registry,
		Catalog:  catalog,
		Users:    users,
		Cart:     services.NewCartService(catalog),
		Orders:   orders,
		Auth:     services.NewAuthService(users, validate, logger),
		Account:  services.NewAccountService(repositories.NewGormAddressRepository(db), repositories.NewWishlistRepository(db), catalog, validate),
		Contact:  services.NewContactService(repositories.NewContactRepository(db), notifier, validate, logger),
		Limiter:  limiter,
		Store:    storeCfg.Store,
		Pricing:  pricing,
		Secure:   env.IsProduction(),
	}
	if env.CSRFEnabled {
		csrfKey := sha256.Sum256(append([]byte("csrf:"), keys.AuthKey...))
		deps.CSRFKey = csrfKey[:]
	}

	server := &http.Server{
		Addr:              env.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go registry.Run(runCtx, storeCfg.Session.SweepInterval)
	go limiter.Run(runCtx, 5*time.Minute, 30*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serve: server starting", zap.String("addr", server.Addr), zap.String("env", env.AppEnv))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newPublisher(env configs.ENV, logger *zap.Logger) messaging.Publisher {
	if len(env.KafkaBrokers) == 0 {
		logger.Info("Serve: KAFKA_BROKERS not set, events are not published")
		return messaging.NewNoopPublisher()
	}
	logger.Info("Serve: publishing events to kafka", zap.Strings("brokers", env.KafkaBrokers))
	return kafka.NewPublisher(env.KafkaBrokers)
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Serve: closing database", zap.Error(err))
	}
}
