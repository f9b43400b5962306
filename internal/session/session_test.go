package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/localstore"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestLoginPersistsAndNotifies(t *testing.T) {
	store := localstore.NewMemoryStore()
	sess := New(store, nil)

	var gotAuth bool
	var gotToken string
	calls := 0
	sess.Subscribe(func(authenticated bool, token string) {
		calls++
		gotAuth, gotToken = authenticated, token
	})

	sess.Login("token-1", &domain.User{ID: 4, Name: "Asha"})

	if !sess.Authenticated() || sess.Token() != "token-1" {
		t.Fatalf("token = %q", sess.Token())
	}
	if calls != 1 || !gotAuth || gotToken != "token-1" {
		t.Fatalf("observer: calls=%d auth=%v token=%q", calls, gotAuth, gotToken)
	}
	if value, ok, _ := store.Get(localstore.KeyAuthToken); !ok || value != "token-1" {
		t.Fatalf("persisted token = %q ok=%v", value, ok)
	}
	if user := sess.User(); user == nil || user.Name != "Asha" {
		t.Fatalf("user = %+v", user)
	}
}

func TestLoginIgnoresBlankToken(t *testing.T) {
	sess := New(localstore.NewMemoryStore(), nil)
	calls := 0
	sess.Subscribe(func(bool, string) { calls++ })

	sess.Login("   ", nil)

	if sess.Authenticated() || calls != 0 {
		t.Fatalf("blank login took effect: auth=%v calls=%d", sess.Authenticated(), calls)
	}
}

func TestLogoutClearsStorageAndNotifies(t *testing.T) {
	store := localstore.NewMemoryStore()
	sess := New(store, nil)
	sess.Login("token-1", &domain.User{ID: 4})

	var gotAuth bool
	sess.Subscribe(func(authenticated bool, _ string) { gotAuth = authenticated })
	gotAuth = true

	sess.Logout()

	if sess.Authenticated() || gotAuth {
		t.Fatal("logout did not reset state")
	}
	if _, ok, _ := store.Get(localstore.KeyAuthToken); ok {
		t.Fatal("token survived logout")
	}
	if _, ok, _ := store.Get(localstore.KeyUser); ok {
		t.Fatal("user survived logout")
	}
}

func TestRestoreFromStorage(t *testing.T) {
	store := localstore.NewMemoryStore()
	first := New(store, nil)
	first.Login(signedToken(t, time.Now().Add(time.Hour)), &domain.User{ID: 4, Name: "Asha"})

	second := New(store, nil)
	if !second.Authenticated() {
		t.Fatal("valid identity not restored")
	}
	if user := second.User(); user == nil || user.ID != 4 {
		t.Fatalf("restored user = %+v", user)
	}
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	store := localstore.NewMemoryStore()
	first := New(store, nil)
	first.Login(signedToken(t, time.Now().Add(-time.Hour)), &domain.User{ID: 4})

	second := New(store, nil)
	if second.Authenticated() {
		t.Fatal("expired token restored")
	}
	if _, ok, _ := store.Get(localstore.KeyAuthToken); ok {
		t.Fatal("expired token left in storage")
	}
}

func TestRestoreKeepsOpaqueToken(t *testing.T) {
	store := localstore.NewMemoryStore()
	if err := store.Set(localstore.KeyAuthToken, "opaque-session-token"); err != nil {
		t.Fatal(err)
	}

	sess := New(store, nil)
	if sess.Token() != "opaque-session-token" {
		t.Fatalf("token = %q", sess.Token())
	}
}
