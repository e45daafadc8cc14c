// Package sessions owns the credential state of the client: the access and
// refresh tokens plus the cached user profile, mirrored to durable storage so a
// restart can pick the login back up.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	autherrors "github.com/gongxings/ai-creator/internal/errors"
	"github.com/gongxings/ai-creator/storage"
	"github.com/gongxings/ai-creator/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var ErrNoProfileFetcher = errors.New("no profile fetcher attached")

// ProfileFetcher reads the current user's profile and balance from the backend.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*users.Profile, error)
	FetchBalance(ctx context.Context) (users.Balance, error)
}

// Store is the process wide credential store.
//
// lock guards the in-memory session and is never held across I/O. writeLock
// serializes mutations with their storage writes so the persisted keys follow
// the same order as the in-memory updates.
type Store struct {
	repo   storage.Repo
	logger zerolog.Logger

	lock       sync.RWMutex
	session    Session
	generation uint64 // bumped whenever a session is installed
	fetcher    ProfileFetcher

	writeLock sync.Mutex
	refresh   singleflight.Group
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(repo storage.Repo, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetProfileFetcher attaches the backend reader used by RefreshProfile and
// RefreshBalance. The fetcher usually goes through the request pipeline, which
// itself reads this store, so it is attached after construction.
func (s *Store) SetProfileFetcher(f ProfileFetcher) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.fetcher = f
}

// Restore loads a previously persisted session into memory. It makes no
// network call.
func (s *Store) Restore(ctx context.Context) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	token, ok, err := s.repo.Get(ctx, storage.KeyAccessToken)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.Warn().Err(err).Msg("discarding unreadable stored session")
		s.removeKeys(ctx)
		return nil
	}
	if err != nil {
		return fmt.Errorf("[Store Restore] read %s: %w", storage.KeyAccessToken, err)
	}
	if !ok || token == "" {
		return nil
	}

	refreshToken, _, err := s.repo.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("[Store Restore] read %s: %w", storage.KeyRefreshToken, err)
	}

	var user *users.Profile
	raw, ok, err := s.repo.Get(ctx, storage.KeyUserInfo)
	if err != nil {
		return fmt.Errorf("[Store Restore] read %s: %w", storage.KeyUserInfo, err)
	}
	if ok && raw != "" {
		var p users.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.logger.Warn().Err(err).Str("key", storage.KeyUserInfo).Msg("ignoring corrupt stored profile")
		} else {
			user = &p
		}
	}

	s.lock.Lock()
	s.session = Session{AccessToken: token, RefreshToken: refreshToken, User: user}
	s.generation++
	s.lock.Unlock()
	return nil
}

// SetSession replaces the session and persists it. A nil user keeps the
// cached profile. Use Clear to log out.
func (s *Store) SetSession(ctx context.Context, accessToken, refreshToken string, user *users.Profile) error {
	if accessToken == "" {
		return autherrors.ErrEmptyAccessToken
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.lock.Lock()
	prev := s.session
	next := Session{AccessToken: accessToken, RefreshToken: refreshToken, User: prev.User}
	if user != nil {
		u := *user
		next.User = &u
	}
	s.session = next
	s.generation++
	s.lock.Unlock()

	if prev.AccessToken != next.AccessToken {
		if err := s.repo.Set(ctx, storage.KeyAccessToken, next.AccessToken); err != nil {
			return fmt.Errorf("[Store SetSession] persist %s: %w", storage.KeyAccessToken, err)
		}
	}
	if prev.RefreshToken != next.RefreshToken {
		var err error
		if next.RefreshToken == "" {
			err = s.repo.Remove(ctx, storage.KeyRefreshToken)
		} else {
			err = s.repo.Set(ctx, storage.KeyRefreshToken, next.RefreshToken)
		}
		if err != nil {
			return fmt.Errorf("[Store SetSession] persist %s: %w", storage.KeyRefreshToken, err)
		}
	}
	if user != nil {
		if err := s.persistUser(ctx, next.User); err != nil {
			return fmt.Errorf("[Store SetSession] %w", err)
		}
	}
	return nil
}

// RefreshProfile replaces the cached profile with a fresh copy from the
// backend. Concurrent callers holding the same access token share one fetch.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.lock.RLock()
	token, fetcher := s.session.AccessToken, s.fetcher
	s.lock.RUnlock()

	if fetcher == nil {
		return ErrNoProfileFetcher
	}
	if token == "" {
		return autherrors.ErrNotAuthenticated
	}

	_, err, _ := s.refresh.Do(token, func() (interface{}, error) {
		return nil, s.refreshProfile(ctx, token, fetcher)
	})
	return err
}

func (s *Store) refreshProfile(ctx context.Context, token string, fetcher ProfileFetcher) error {

	profile, err := fetcher.FetchProfile(ctx)
	if err != nil {
		return fmt.Errorf("[Store RefreshProfile] fetch: %w", err)
	}
	return s.SetProfile(ctx, token, profile)
}

// SetProfile replaces the cached profile if forToken is still the current
// access token, and returns ErrSessionChanged otherwise.
func (s *Store) SetProfile(ctx context.Context, forToken string, profile *users.Profile) error {
	if profile == nil {
		return fmt.Errorf("[Store SetProfile] %w: nil profile", autherrors.ErrInvalidRequest)
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.lock.Lock()
	if forToken == "" || s.session.AccessToken != forToken {
		s.lock.Unlock()
		return autherrors.ErrSessionChanged
	}
	u := *profile
	s.session.User = &u
	s.lock.Unlock()

	return s.persistUser(ctx, &u)
}

// RefreshBalance merges the latest credits and membership into the cached
// profile. Failures are logged and leave the session unchanged.
func (s *Store) RefreshBalance(ctx context.Context) {
	s.lock.RLock()
	token, fetcher := s.session.AccessToken, s.fetcher
	s.lock.RUnlock()

	if fetcher == nil || token == "" {
		return
	}

	balance, err := fetcher.FetchBalance(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("balance refresh failed")
		return
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.lock.Lock()
	if s.session.AccessToken != token || s.session.User == nil {
		s.lock.Unlock()
		return
	}
	u := s.session.User.WithBalance(balance)
	s.session.User = &u
	s.lock.Unlock()

	if err := s.persistUser(ctx, &u); err != nil {
		s.logger.Warn().Err(err).Msg("balance refresh not persisted")
	}
}

// Clear logs the session out of memory and storage. Memory is always cleared;
// storage errors are returned afterwards. Calling Clear twice is harmless.
func (s *Store) Clear(ctx context.Context) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.lock.Lock()
	s.session = Session{}
	s.lock.Unlock()

	var errs []error
	for _, key := range storage.SessionKeys {
		if err := s.repo.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("[Store Clear] %w", errors.Join(errs...))
	}
	return nil
}

func (s *Store) removeKeys(ctx context.Context) {
	for _, key := range storage.SessionKeys {
		if err := s.repo.Remove(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("removing stored session key")
		}
	}
}

func (s *Store) IsAuthenticated() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.IsAuthenticated()
}

// IsAdmin is false when no profile is cached yet.
func (s *Store) IsAdmin() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.IsAdmin()
}

func (s *Store) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.AccessToken
}

// Generation counts the sessions installed by Restore and SetSession. Clear
// leaves it unchanged.
func (s *Store) Generation() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.generation
}

// Snapshot returns a copy of the session. Mutating it does not affect the store.
func (s *Store) Snapshot() Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.clone()
}

func (s *Store) persistUser(ctx context.Context, user *users.Profile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.KeyUserInfo, err)
	}
	if err := s.repo.Set(ctx, storage.KeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", storage.KeyUserInfo, err)
	}
	return nil
}
