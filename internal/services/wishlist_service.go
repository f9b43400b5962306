package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/session"
)

var (
	errWishlistAPIRequired     = errors.New("wishlist service: api is required")
	errWishlistSessionRequired = errors.New("wishlist service: session is required")
)

// ErrWishlistAnonymous is returned when a mutation is attempted without a
// signed-in user; the wishlist has no anonymous-local mode.
var ErrWishlistAnonymous = errors.New("wishlist service: authentication required")

// WishlistAPI is the remote wishlist boundary.
type WishlistAPI interface {
	FetchWishlist(ctx context.Context, token string) ([]domain.WishlistItem, error)
	AddWishlistItem(ctx context.Context, token string, productID int64) error
	DeleteWishlistItem(ctx context.Context, token string, productID int64) error
	ClearWishlist(ctx context.Context, token string) error
}

// WishlistServiceDeps wires the remote boundary and session.
type WishlistServiceDeps struct {
	API     WishlistAPI
	Session *session.Session
	Logger  *zap.Logger
}

// WishlistService mirrors the remote per-user wishlist. Unlike the cart it is
// authenticated-only: anonymous sessions always see an empty list.
type WishlistService struct {
	mu     sync.Mutex
	api    WishlistAPI
	sess   *session.Session
	logger *zap.Logger
	items  []domain.WishlistItem
}

// NewWishlistService constructs the service and subscribes to auth changes.
func NewWishlistService(deps WishlistServiceDeps) (*WishlistService, error) {
	if deps.API == nil {
		return nil, errWishlistAPIRequired
	}
	if deps.Session == nil {
		return nil, errWishlistSessionRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &WishlistService{
		api:    deps.API,
		sess:   deps.Session,
		logger: logger,
	}

	if s.sess.Authenticated() {
		ctx, cancel := context.WithTimeout(context.Background(), authSyncTimeout)
		defer cancel()
		s.Fetch(ctx)
	}

	s.sess.Subscribe(func(authenticated bool, _ string) {
		ctx, cancel := context.WithTimeout(context.Background(), authSyncTimeout)
		defer cancel()
		if authenticated {
			s.Fetch(ctx)
			return
		}
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
	})
	return s, nil
}

// Items returns a copy of the current wishlist.
func (s *WishlistService) Items() []domain.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistItem(nil), s.items...)
}

// TotalItems returns the number of saved products.
func (s *WishlistService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains reports whether the product is saved.
func (s *WishlistService) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Fetch replaces the in-memory list with the server's wishlist. A failed
// fetch degrades to an empty list.
func (s *WishlistService) Fetch(ctx context.Context) {
	token := s.sess.Token()
	if token == "" {
		return
	}
	items, err := s.api.FetchWishlist(ctx, token)
	if err != nil {
		s.logger.Warn("wishlist fetch failed", zap.Error(err))
		items = nil
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Add saves a product remotely then refetches. The remote failure surfaces so
// the UI can report it.
func (s *WishlistService) Add(ctx context.Context, product domain.Product) error {
	token := s.sess.Token()
	if token == "" {
		return ErrWishlistAnonymous
	}
	if err := s.api.AddWishlistItem(ctx, token, product.ID); err != nil {
		s.logger.Warn("wishlist add failed", zap.Error(err))
		return err
	}
	s.Fetch(ctx)
	return nil
}

// Remove deletes a product remotely then refetches. Failures are swallowed.
func (s *WishlistService) Remove(ctx context.Context, productID int64) {
	token := s.sess.Token()
	if token == "" {
		return
	}
	if err := s.api.DeleteWishlistItem(ctx, token, productID); err != nil {
		s.logger.Warn("wishlist remove failed", zap.Error(err))
		return
	}
	s.Fetch(ctx)
}

// Toggle adds the product when absent and removes it when present.
func (s *WishlistService) Toggle(ctx context.Context, product domain.Product) error {
	if !s.sess.Authenticated() {
		return ErrWishlistAnonymous
	}
	if s.Contains(product.ID) {
		s.Remove(ctx, product.ID)
		return nil
	}
	return s.Add(ctx, product)
}

// Clear empties the list optimistically and best-effort notifies the remote.
func (s *WishlistService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	token := s.sess.Token()
	if token == "" {
		return
	}
	if err := s.api.ClearWishlist(ctx, token); err != nil {
		s.logger.Warn("wishlist clear failed", zap.Error(err))
		return
	}
	s.Fetch(ctx)
}
