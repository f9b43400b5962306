package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/di"
	"github.com/rishi-store/storefront/internal/handlers"
	"github.com/rishi-store/storefront/internal/platform/config"
	"github.com/rishi-store/storefront/internal/platform/observability"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(nil)
	authHandlers := handlers.NewAuthHandlers(container.Session)
	cartHandlers := handlers.NewCartHandlers(container.Cart)
	wishlistHandlers := handlers.NewWishlistHandlers(container.Wishlist)
	categoryHandlers := handlers.NewCategoryHandlers(container.Backend, container.Catalog)
	productHandlers := handlers.NewProductHandlers(container.Backend)
	glossaryHandlers := handlers.NewGlossaryHandlers(container.Glossary, container.Linker)
	pageHandlers := handlers.NewPageHandlers(container.CMS, container.Linker)
	bookingHandlers := handlers.NewBookingHandlers(container.Booking)
	checkoutHandlers := handlers.NewCheckoutHandlers(container.Checkout)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithAuthRoutes(authHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithWishlistRoutes(wishlistHandlers.Routes),
		handlers.WithCategoryRoutes(categoryHandlers.Routes),
		handlers.WithProductRoutes(productHandlers.Routes),
		handlers.WithGlossaryRoutes(glossaryHandlers.Routes),
		handlers.WithPageRoutes(pageHandlers.Routes),
		handlers.WithBookingRoutes(bookingHandlers.Routes),
		handlers.WithCheckoutRoutes(checkoutHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
