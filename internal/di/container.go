// Package di provides dependency injection configuration for the Inkwell server.
package di

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/Jawed-lol/inkwell-sub000/internal/api"
	"github.com/Jawed-lol/inkwell-sub000/internal/auth"
	"github.com/Jawed-lol/inkwell-sub000/internal/config"
	"github.com/Jawed-lol/inkwell-sub000/internal/logger"
	"github.com/Jawed-lol/inkwell-sub000/internal/mail"
	"github.com/Jawed-lol/inkwell-sub000/internal/ratelimit"
	"github.com/Jawed-lol/inkwell-sub000/internal/search"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, provideConfig)
	do.Provide(injector, provideLogger)
	do.Provide(injector, provideAuthKey)

	// Storage and search
	do.Provide(injector, provideStore)
	do.Provide(injector, provideSearchIndex)

	// Auth and outbound mail
	do.Provide(injector, provideTokenService)
	do.Provide(injector, provideMailer)

	// Business services
	do.Provide(injector, provideAuthService)
	do.Provide(injector, provideCatalogService)
	do.Provide(injector, provideCartService)
	do.Provide(injector, provideOrderService)
	do.Provide(injector, provideReviewService)
	do.Provide(injector, provideWishlistService)

	// Server
	do.Provide(injector, provideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
func Bootstrap(injector *do.RootScope) error {
	_, err := do.Invoke[*HTTPServerHandle](injector)
	return err
}

func provideConfig(do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

func provideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}

// AuthKey is the hex-encoded PASETO symmetric key.
type AuthKey string

func provideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key, err := auth.LoadOrGenerateKey(cfg.Data.Path)
	if err != nil {
		return "", err
	}
	return AuthKey(hex.EncodeToString(key)), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

func provideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.Path, "db")
	st, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)
	return &StoreHandle{Store: st}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

func provideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.Path,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	// Catalog writes feed the index from here on.
	storeHandle.SetSearchIndexer(idx)

	log.Info("Search index initialized")
	return &SearchIndexHandle{Index: idx}, nil
}

func provideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService(string(key), cfg.Auth.TokenDuration)
}

func provideMailer(i do.Injector) (mail.Mailer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	// No delivery provider configured yet; reset links go to the log.
	return mail.NewLogMailer(log.Logger), nil
}

func provideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	mailer := do.MustInvoke[mail.Mailer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		storeHandle.Store,
		tokenService,
		mailer,
		cfg.Server.FrontendURL,
		cfg.Auth.ResetTokenDuration,
		log.Logger,
	), nil
}

func provideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCatalogService(storeHandle.Store, searchHandle.Index, log.Logger), nil
}

func provideCartService(i do.Injector) (*service.CartService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCartService(storeHandle.Store, log.Logger), nil
}

func provideOrderService(i do.Injector) (*service.OrderService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewOrderService(storeHandle.Store, log.Logger), nil
}

func provideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewReviewService(storeHandle.Store, log.Logger), nil
}

func provideWishlistService(i do.Injector) (*service.WishlistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewWishlistService(storeHandle.Store, log.Logger), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

func provideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)

	handler := api.NewServer(api.Options{
		TokenService:    tokenService,
		AuthService:     do.MustInvoke[*service.AuthService](i),
		CatalogService:  do.MustInvoke[*service.CatalogService](i),
		CartService:     do.MustInvoke[*service.CartService](i),
		OrderService:    do.MustInvoke[*service.OrderService](i),
		ReviewService:   do.MustInvoke[*service.ReviewService](i),
		WishlistService: do.MustInvoke[*service.WishlistService](i),
		AuthLimiter:     ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		FrontendURL:     cfg.Server.FrontendURL,
		Logger:          log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
