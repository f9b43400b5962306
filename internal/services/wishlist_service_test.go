package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/localstore"
	"github.com/rishi-store/storefront/internal/session"
)

type stubWishlistAPI struct {
	fetchItems []domain.WishlistItem
	fetchErr   error
	fetchCalls int

	addErr   error
	addCalls int

	deleteErr   error
	deleteCalls int

	clearCalls int
}

func (s *stubWishlistAPI) FetchWishlist(ctx context.Context, token string) ([]domain.WishlistItem, error) {
	s.fetchCalls++
	return append([]domain.WishlistItem(nil), s.fetchItems...), s.fetchErr
}

func (s *stubWishlistAPI) AddWishlistItem(ctx context.Context, token string, productID int64) error {
	s.addCalls++
	return s.addErr
}

func (s *stubWishlistAPI) DeleteWishlistItem(ctx context.Context, token string, productID int64) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *stubWishlistAPI) ClearWishlist(ctx context.Context, token string) error {
	s.clearCalls++
	return nil
}

func newWishlist(t *testing.T, api *stubWishlistAPI, authenticated bool) (*WishlistService, *session.Session) {
	t.Helper()
	sess := session.New(localstore.NewMemoryStore(), nil)
	if authenticated {
		sess.Login("token-1", nil)
	}
	svc, err := NewWishlistService(WishlistServiceDeps{API: api, Session: sess})
	if err != nil {
		t.Fatalf("NewWishlistService: %v", err)
	}
	return svc, sess
}

func TestWishlistAnonymousMutationsRejected(t *testing.T) {
	api := &stubWishlistAPI{}
	svc, _ := newWishlist(t, api, false)
	ctx := context.Background()

	if err := svc.Add(ctx, product(1, 100)); !errors.Is(err, ErrWishlistAnonymous) {
		t.Fatalf("Add error = %v, want ErrWishlistAnonymous", err)
	}
	if err := svc.Toggle(ctx, product(1, 100)); !errors.Is(err, ErrWishlistAnonymous) {
		t.Fatalf("Toggle error = %v, want ErrWishlistAnonymous", err)
	}
	if api.addCalls != 0 {
		t.Fatal("anonymous mutations must not reach the remote")
	}
}

func TestWishlistAddPropagatesAndRefetches(t *testing.T) {
	api := &stubWishlistAPI{}
	svc, _ := newWishlist(t, api, true)
	ctx := context.Background()

	api.fetchItems = []domain.WishlistItem{{ProductID: 1}}
	if err := svc.Add(ctx, product(1, 100)); err != nil {
		t.Fatal(err)
	}
	if !svc.Contains(1) {
		t.Fatal("item missing after refetch")
	}

	api.addErr = errors.New("backend down")
	if err := svc.Add(ctx, product(2, 100)); err == nil {
		t.Fatal("Add must surface the remote failure")
	}
}

func TestWishlistRemoveSwallowsFailure(t *testing.T) {
	api := &stubWishlistAPI{fetchItems: []domain.WishlistItem{{ProductID: 1}}, deleteErr: errors.New("backend down")}
	svc, _ := newWishlist(t, api, true)

	before := api.fetchCalls
	svc.Remove(context.Background(), 1)

	if api.deleteCalls != 1 {
		t.Fatalf("delete calls = %d", api.deleteCalls)
	}
	if api.fetchCalls != before {
		t.Fatal("failed remove must not refetch")
	}
}

func TestWishlistToggle(t *testing.T) {
	api := &stubWishlistAPI{fetchItems: []domain.WishlistItem{{ProductID: 1}}}
	svc, _ := newWishlist(t, api, true)
	ctx := context.Background()

	// Present: toggling removes.
	if err := svc.Toggle(ctx, product(1, 100)); err != nil {
		t.Fatal(err)
	}
	if api.deleteCalls != 1 || api.addCalls != 0 {
		t.Fatalf("delete=%d add=%d after toggle of present item", api.deleteCalls, api.addCalls)
	}

	// Absent: toggling adds.
	api.fetchItems = nil
	svc.Fetch(ctx)
	if err := svc.Toggle(ctx, product(2, 100)); err != nil {
		t.Fatal(err)
	}
	if api.addCalls != 1 {
		t.Fatalf("add calls = %d after toggle of absent item", api.addCalls)
	}
}

func TestWishlistAuthTransitions(t *testing.T) {
	sess := session.New(localstore.NewMemoryStore(), nil)
	api := &stubWishlistAPI{fetchItems: []domain.WishlistItem{{ProductID: 1}, {ProductID: 2}}}

	svc, err := NewWishlistService(WishlistServiceDeps{API: api, Session: sess})
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.TotalItems(); got != 0 {
		t.Fatalf("anonymous wishlist has %d items", got)
	}

	sess.Login("token-1", nil)
	if got := svc.TotalItems(); got != 2 {
		t.Fatalf("wishlist after login = %d items, want 2", got)
	}

	sess.Logout()
	if got := svc.TotalItems(); got != 0 {
		t.Fatalf("wishlist after logout = %d items, want 0", got)
	}
}

func TestWishlistFetchDegradesToEmpty(t *testing.T) {
	api := &stubWishlistAPI{fetchItems: []domain.WishlistItem{{ProductID: 1}}}
	svc, _ := newWishlist(t, api, true)

	api.fetchErr = errors.New("backend down")
	svc.Fetch(context.Background())

	if got := svc.TotalItems(); got != 0 {
		t.Fatalf("failed fetch left %d items", got)
	}
}
