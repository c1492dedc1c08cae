package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/storage"
	"github.com/beritahub/go-portal-client/users"
)

// Store is the process-wide session store. It starts in the loading state
// and settles exactly once, through Verify.
type Store struct {
	storage storage.Storage
	users   *users.Service
	nav     Navigator
	log     zerolog.Logger
	nowTime func() time.Time

	mu         sync.RWMutex
	user       *users.User
	loading    bool
	verifyOnce sync.Once
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore creates a session store in the loading state. Call Verify once at
// startup to settle it.
func NewStore(store storage.Storage, userService *users.Service, nav Navigator, options ...StoreOption) (*Store, error) {
	if store == nil {
		return nil, errors.New("[session.NewStore] storage is required")
	}
	if userService == nil {
		return nil, errors.New("[session.NewStore] user service is required")
	}
	if nav == nil {
		return nil, errors.New("[session.NewStore] navigator is required")
	}

	s := &Store{
		storage: store,
		users:   userService,
		nav:     nav,
		log:     zerolog.Nop(),
		nowTime: time.Now,
		loading: true,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Loading reports whether the startup verification window is still open.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated reports whether a user is logged in. It is derived from
// the identity, so it can never disagree with User.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the current identity, or nil when unauthenticated. The
// returned value is a copy; mutating it does not touch the store.
func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Verify restores the session from durable storage, exactly once. A stored
// token+identity pair is confirmed against the identity-lookup endpoint; a
// rejection clears the stored state. Without a stored pair the store settles
// unauthenticated immediately. The loading flag flips false only after the
// outcome is known, so guards never see a half-restored session.
func (s *Store) Verify(ctx context.Context) {
	s.verifyOnce.Do(func() {
		s.verify(ctx)
	})
}

func (s *Store) verify(ctx context.Context) {
	defer s.settle()

	token, err := s.storage.AccessToken()
	if err != nil {
		s.log.Warn().Err(err).Msg("reading stored token failed, starting unauthenticated")
		return
	}
	raw, err := s.storage.Identity()
	if err != nil {
		s.log.Warn().Err(err).Msg("reading stored identity failed, starting unauthenticated")
		return
	}
	if token == "" || len(raw) == 0 {
		return
	}

	var cached users.User
	if err := json.Unmarshal(raw, &cached); err != nil || cached.ID == "" {
		s.log.Warn().Err(err).Msg("stored identity unreadable, clearing stored state")
		s.clearDurable()
		return
	}

	if exp, ok := tokenExpiry(token); ok && exp.Before(s.nowTime()) {
		// Not fatal: the lookup below rides the silent-refresh path.
		s.log.Debug().Time("expired_at", exp).Msg("stored access token expired, lookup will refresh it")
	}

	fresh, err := s.users.Get(ctx, cached.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", cached.ID).Msg("token verification failed, clearing stored state")
		s.clearDurable()
		return
	}

	if err := s.persistIdentity(fresh); err != nil {
		s.log.Error().Err(err).Msg("persisting refreshed identity failed")
	}
	s.setUser(fresh)
}

// Login exchanges credentials for a session. On success the identity and
// token are persisted and the host is sent to the landing page. On failure
// nothing is mutated and the server's message is returned for inline
// display.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	if strings.TrimSpace(email) == "" || password == "" {
		return Result{Success: false, Message: "email and password must not be empty"}
	}

	res, err := s.users.Login(ctx, email, password)
	if err != nil {
		s.log.Debug().Err(err).Msg("login rejected")
		return Result{Success: false, Message: api.Message(err, "login failed")}
	}

	if err := s.storage.SetAccessToken(res.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("persisting access token failed")
	}
	if err := s.persistIdentity(res.User); err != nil {
		s.log.Error().Err(err).Msg("persisting identity failed")
	}

	s.setUser(res.User)
	s.nav.Navigate(RouteHome)
	return Result{Success: true}
}

// Logout ends the session. The server call is best-effort; the local
// cleanup and the navigation to the login page run no matter what.
func (s *Store) Logout(ctx context.Context) {
	defer func() {
		s.clearDurable()
		s.setUser(nil)
		s.nav.Navigate(RouteLogin)
	}()

	if err := s.users.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
	}
}

// ReplaceIdentity overwrites the cached identity after a profile edit. The
// access token is left untouched.
func (s *Store) ReplaceIdentity(user *users.User) error {
	if user == nil {
		return errors.New("[Store.ReplaceIdentity] user is required")
	}
	if err := s.persistIdentity(user); err != nil {
		return errors.Wrap(err, "[Store.ReplaceIdentity]")
	}
	s.setUser(user)
	return nil
}

func (s *Store) persistIdentity(user *users.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[Store.persistIdentity] json.Marshal")
	}
	return s.storage.SetIdentity(raw)
}

func (s *Store) clearDurable() {
	if err := s.storage.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clearing stored credentials failed")
	}
}

func (s *Store) setUser(user *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

func (s *Store) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}
