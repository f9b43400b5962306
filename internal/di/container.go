// Package di assembles the runtime dependencies. Handlers receive a single
// container; everything stateful is constructed here, once per process.
package di

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/autolink"
	"github.com/rishi-store/storefront/internal/backend"
	"github.com/rishi-store/storefront/internal/catalog"
	"github.com/rishi-store/storefront/internal/checkout"
	"github.com/rishi-store/storefront/internal/cms"
	"github.com/rishi-store/storefront/internal/payments"
	"github.com/rishi-store/storefront/internal/platform/config"
	"github.com/rishi-store/storefront/internal/platform/localstore"
	"github.com/rishi-store/storefront/internal/services"
	"github.com/rishi-store/storefront/internal/session"
)

// Container wires the backend boundary, CMS, gateway, and session services.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Backend  *backend.Client
	CMS      *cms.Client
	Glossary *cms.Glossary
	Store    localstore.Store
	Session  *session.Session
	Cart     *services.CartService
	Wishlist *services.WishlistService
	Booking  *services.BookingService
	Gateway  *payments.Manager
	Checkout *checkout.Service
	Catalog  *catalog.Builder

	linkerOnce sync.Once
	linker     *autolink.Linker
}

// NewContainer constructs the runtime dependencies from configuration.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("di: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	cmsClient := cms.NewClient(cfg.CMS.BaseURL, cfg.CMS.APIToken)
	cmsClient.SetContentDir(cfg.CMS.ContentDir)

	sess := session.New(store, logger.Named("session"))

	cart, err := services.NewCartService(services.CartServiceDeps{
		API:     backendClient,
		Store:   store,
		Session: sess,
		Logger:  logger.Named("cart"),
	})
	if err != nil {
		return nil, fmt.Errorf("di: build cart service: %w", err)
	}

	wishlist, err := services.NewWishlistService(services.WishlistServiceDeps{
		API:     backendClient,
		Session: sess,
		Logger:  logger.Named("wishlist"),
	})
	if err != nil {
		return nil, fmt.Errorf("di: build wishlist service: %w", err)
	}

	booking, err := services.NewBookingService(services.BookingServiceDeps{
		API:     backendClient,
		Session: sess,
		Logger:  logger.Named("booking"),
	})
	if err != nil {
		return nil, fmt.Errorf("di: build booking service: %w", err)
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		return nil, err
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceDeps{
		API:     backendClient,
		Gateway: gateway,
		Session: sess,
		Logger:  logger.Named("checkout"),
	})
	if err != nil {
		return nil, fmt.Errorf("di: build checkout service: %w", err)
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Backend:  backendClient,
		CMS:      cmsClient,
		Glossary: cms.NewGlossary(cmsClient, logger.Named("glossary")),
		Store:    store,
		Session:  sess,
		Cart:     cart,
		Wishlist: wishlist,
		Booking:  booking,
		Gateway:  gateway,
		Checkout: checkoutSvc,
		Catalog:  &catalog.Builder{},
	}, nil
}

func buildStore(cfg *config.Config) (localstore.Store, error) {
	if cfg.Storage.Dir == "" {
		return localstore.NewMemoryStore(), nil
	}
	store, err := localstore.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("di: open local store: %w", err)
	}
	return store, nil
}

func buildGateway(cfg *config.Config) (*payments.Manager, error) {
	providers := map[string]payments.Provider{}

	if cfg.Gateway.KeyID != "" && cfg.Gateway.KeySecret != "" {
		razorpay, err := payments.NewRazorpayProvider(payments.RazorpayConfig{
			KeyID:     cfg.Gateway.KeyID,
			KeySecret: cfg.Gateway.KeySecret,
			Currency:  cfg.Gateway.Currency,
		})
		if err != nil {
			return nil, fmt.Errorf("di: build razorpay provider: %w", err)
		}
		providers["razorpay"] = razorpay
	}
	if cfg.Gateway.StripeAPIKey != "" {
		stripe, err := payments.NewStripeProvider(payments.StripeConfig{
			APIKey: cfg.Gateway.StripeAPIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("di: build stripe provider: %w", err)
		}
		providers["stripe"] = stripe
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("di: no payment provider configured")
	}

	defaultProvider := cfg.Gateway.Provider
	if _, ok := providers[defaultProvider]; !ok {
		defaultProvider = ""
	}
	manager, err := payments.NewManager(providers, defaultProvider)
	if err != nil {
		return nil, fmt.Errorf("di: build gateway manager: %w", err)
	}
	return manager, nil
}

// Linker returns the glossary auto-linker, compiled once from the loaded
// glossary on first use.
func (c *Container) Linker(ctx context.Context) *autolink.Linker {
	c.linkerOnce.Do(func() {
		c.linker = autolink.New(c.Glossary.Terms(ctx))
	})
	return c.linker
}
