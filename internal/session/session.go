// Package session owns the storefront's authentication state. It replaces the
// original module-level stores with an explicitly constructed object created
// once per session: state changes notify subscribed observers, which is how
// the cart and wishlist synchronizers learn about login and logout.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/localstore"
)

// Observer is invoked after every authentication transition. authenticated is
// true when a token is present; token is empty on logout.
type Observer func(authenticated bool, token string)

// Session holds the current identity and mirrors it to local storage.
type Session struct {
	mu        sync.Mutex
	store     localstore.Store
	logger    *zap.Logger
	token     string
	user      *domain.User
	observers []Observer
}

// New constructs a session, restoring any persisted identity. A stored token
// whose JWT expiry has passed is discarded rather than restored.
func New(store localstore.Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{store: store, logger: logger}

	if store != nil {
		token, ok, err := store.Get(localstore.KeyAuthToken)
		if err != nil {
			logger.Warn("session restore failed", zap.Error(err))
		} else if ok {
			token = strings.TrimSpace(token)
			if tokenExpired(token) {
				logger.Info("stored token expired, starting anonymous")
				_ = store.Remove(localstore.KeyAuthToken)
				_ = store.Remove(localstore.KeyUser)
			} else {
				s.token = token
				var user domain.User
				if found, err := localstore.GetJSON(store, localstore.KeyUser, &user); err == nil && found {
					s.user = &user
				}
			}
		}
	}
	return s
}

// Subscribe registers an observer for authentication transitions.
func (s *Session) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// Token returns the current bearer token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the authenticated user, nil when anonymous.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Authenticated reports whether a bearer token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login stores the identity, persists it, and notifies observers.
func (s *Session) Login(token string, user *domain.User) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	if s.store != nil {
		if err := s.store.Set(localstore.KeyAuthToken, token); err != nil {
			s.logger.Warn("persist token failed", zap.Error(err))
		}
		if user != nil {
			if err := localstore.SetJSON(s.store, localstore.KeyUser, user); err != nil {
				s.logger.Warn("persist user failed", zap.Error(err))
			}
		}
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(true, token)
	}
}

// Logout clears the identity and notifies observers.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	if s.store != nil {
		_ = s.store.Remove(localstore.KeyAuthToken)
		_ = s.store.Remove(localstore.KeyUser)
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(false, "")
	}
}

// tokenExpired inspects the token's registered claims without verifying the
// signature; the signing key lives with the backend, and the check only
// avoids restoring a token the backend would reject anyway.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		// Opaque (non-JWT) tokens are accepted as-is.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
