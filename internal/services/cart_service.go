package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/localstore"
	"github.com/rishi-store/storefront/internal/session"
)

var (
	errCartAPIRequired     = errors.New("cart service: api is required")
	errCartSessionRequired = errors.New("cart service: session is required")
)

const authSyncTimeout = 10 * time.Second

// CartAPI is the remote cart boundary the synchronizer reconciles against.
type CartAPI interface {
	FetchCart(ctx context.Context, token string) ([]domain.CartItem, error)
	SyncCart(ctx context.Context, token string, items []domain.CartItem) error
	DeleteCartItem(ctx context.Context, token string, productID int64, variationID *int64) error
	ClearCart(ctx context.Context, token string) error
}

// CartServiceDeps wires the remote boundary, local storage, and session.
type CartServiceDeps struct {
	API     CartAPI
	Store   localstore.Store
	Session *session.Session
	Logger  *zap.Logger
}

// CartService keeps one in-memory cart correct across the anonymous-local,
// login-transition, and authenticated-remote states. Every mutation is
// applied locally in one synchronous step before the remote call; a failed
// remote write never rolls the local mutation back.
type CartService struct {
	mu     sync.Mutex
	api    CartAPI
	store  localstore.Store
	sess   *session.Session
	logger *zap.Logger
	items  []domain.CartItem
}

// NewCartService constructs the synchronizer, restores the appropriate state
// for the current auth mode, and subscribes to auth transitions.
func NewCartService(deps CartServiceDeps) (*CartService, error) {
	if deps.API == nil {
		return nil, errCartAPIRequired
	}
	if deps.Session == nil {
		return nil, errCartSessionRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &CartService{
		api:    deps.API,
		store:  deps.Store,
		sess:   deps.Session,
		logger: logger,
	}

	if s.sess.Authenticated() {
		ctx, cancel := context.WithTimeout(context.Background(), authSyncTimeout)
		defer cancel()
		s.FetchRemote(ctx)
	} else {
		s.loadLocal()
	}

	s.sess.Subscribe(s.onAuthChange)
	return s, nil
}

// Items returns a copy of the current cart lines.
func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// TotalItems sums the quantities across all lines.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}

// TotalPrice sums the line totals across all lines.
func (s *CartService) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// AddItem appends the product (or increments the existing identity-keyed
// line) and persists. This is the one write allowed to surface a remote
// failure to its caller; the local mutation is kept either way.
func (s *CartService) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	line := domain.CartItem{
		ProductID:     product.ID,
		VariationID:   product.VariationID,
		Name:          product.Name,
		VariationName: product.VariationName,
		Price:         product.EffectivePrice(),
		Image:         product.Image,
		Stock:         product.Stock,
		Quantity:      quantity,
	}

	s.mu.Lock()
	if idx := s.indexOf(line.Key()); idx >= 0 {
		s.items[idx].Quantity += quantity
	} else {
		s.items = append(s.items, line)
	}
	snapshot := append([]domain.CartItem(nil), s.items...)
	s.mu.Unlock()

	token := s.sess.Token()
	if token == "" {
		s.saveLocal(snapshot)
		return nil
	}
	if err := s.api.SyncCart(ctx, token, snapshot); err != nil {
		s.logger.Warn("cart sync failed", zap.Error(err))
		return err
	}
	return nil
}

// RemoveItem filters the line out optimistically, then notifies the remote.
// A failed remote delete does not restore the line.
func (s *CartService) RemoveItem(ctx context.Context, productID int64, variationID *int64) {
	key := domain.NewCartKey(productID, variationID)

	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	s.items = kept
	snapshot := append([]domain.CartItem(nil), s.items...)
	s.mu.Unlock()

	token := s.sess.Token()
	if token == "" {
		s.saveLocal(snapshot)
		return
	}
	if err := s.api.DeleteCartItem(ctx, token, productID, variationID); err != nil {
		s.logger.Warn("cart remove failed", zap.Error(err))
		return
	}
	s.FetchRemote(ctx)
}

// UpdateQuantity clamps the requested quantity to at least one, mutates the
// line in place, and persists. An absent line is left untouched.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, variationID *int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	key := domain.NewCartKey(productID, variationID)

	s.mu.Lock()
	idx := s.indexOf(key)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items[idx].Quantity = quantity
	snapshot := append([]domain.CartItem(nil), s.items...)
	s.mu.Unlock()

	token := s.sess.Token()
	if token == "" {
		s.saveLocal(snapshot)
		return
	}
	if err := s.api.SyncCart(ctx, token, snapshot); err != nil {
		s.logger.Warn("cart sync failed", zap.Error(err))
	}
}

// Clear empties the collection, best-effort notifies the remote, and always
// clears local storage.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if token := s.sess.Token(); token != "" {
		if err := s.api.ClearCart(ctx, token); err != nil {
			s.logger.Warn("cart clear failed", zap.Error(err))
		}
	}
	s.clearLocal()
}

// FetchRemote replaces the in-memory collection wholesale with the server's
// cart. Anonymous sessions are a no-op; a failed fetch degrades to an empty
// collection rather than surfacing an error.
func (s *CartService) FetchRemote(ctx context.Context) {
	token := s.sess.Token()
	if token == "" {
		return
	}
	items, err := s.api.FetchCart(ctx, token)
	if err != nil {
		s.logger.Warn("cart fetch failed", zap.Error(err))
		items = nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// onAuthChange performs the merge-on-login reconciliation and the
// discard-on-logout reset.
func (s *CartService) onAuthChange(authenticated bool, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), authSyncTimeout)
	defer cancel()

	if !authenticated {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		s.clearLocal()
		return
	}

	s.FetchRemote(ctx)

	var local []domain.CartItem
	if s.store != nil {
		if _, err := localstore.GetJSON(s.store, localstore.KeyCart, &local); err != nil {
			s.logger.Warn("local cart read failed", zap.Error(err))
		}
	}
	if len(local) == 0 {
		return
	}

	s.mu.Lock()
	s.items = mergeCarts(local, s.items)
	snapshot := append([]domain.CartItem(nil), s.items...)
	s.mu.Unlock()

	if err := s.api.SyncCart(ctx, token, snapshot); err != nil {
		s.logger.Warn("merged cart sync failed", zap.Error(err))
	}
	s.clearLocal()
}

// mergeCarts combines a pre-login local cart with the remote cart: remote
// quantities are the base, and local entries add theirs on top. Quantities
// sum; they never replace.
func mergeCarts(local, remote []domain.CartItem) []domain.CartItem {
	merged := make([]domain.CartItem, 0, len(remote)+len(local))
	index := make(map[domain.CartKey]int, len(remote))

	for _, item := range remote {
		index[item.Key()] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range local {
		if idx, ok := index[item.Key()]; ok {
			merged[idx].Quantity += item.Quantity
		} else {
			index[item.Key()] = len(merged)
			merged = append(merged, item)
		}
	}
	return merged
}

// indexOf requires s.mu to be held.
func (s *CartService) indexOf(key domain.CartKey) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s *CartService) loadLocal() {
	if s.store == nil {
		return
	}
	var items []domain.CartItem
	if _, err := localstore.GetJSON(s.store, localstore.KeyCart, &items); err != nil {
		s.logger.Warn("local cart read failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *CartService) saveLocal(items []domain.CartItem) {
	if s.store == nil {
		return
	}
	if err := localstore.SetJSON(s.store, localstore.KeyCart, items); err != nil {
		s.logger.Warn("local cart write failed", zap.Error(err))
	}
}

func (s *CartService) clearLocal() {
	if s.store == nil {
		return
	}
	if err := s.store.Remove(localstore.KeyCart); err != nil {
		s.logger.Warn("local cart clear failed", zap.Error(err))
	}
}
