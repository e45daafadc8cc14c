// Package auth implements the account flows of the client: login, logout,
// registration, token refresh and profile maintenance. Each flow validates its
// input, calls the backend through the request pipeline and updates the
// credential store.
package auth

import (
	"context"
	"errors"
	"fmt"

	autherrors "github.com/gongxings/ai-creator/internal/errors"
	"github.com/gongxings/ai-creator/sessions"
	"github.com/gongxings/ai-creator/token"
	"github.com/gongxings/ai-creator/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Service struct {
	api       *API
	store     *sessions.Store
	validator *Validator
	logger    zerolog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the service and attaches api as the store's profile fetcher.
func NewService(api *API, store *sessions.Store, opts ...ServiceOption) *Service {
	s := &Service{
		api:       api,
		store:     store,
		validator: NewValidator(),
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	store.SetProfileFetcher(api)
	return s
}

// Login exchanges credentials for tokens and stores them with the profile the
// backend sent alongside. Without one the profile is fetched from /me; a failed
// fetch does not fail the login.
func (s *Service) Login(ctx context.Context, username, password string) (sessions.Session, error) {
	req := LoginRequest{Username: username, Password: password}
	if err := s.validator.ValidateLogin(req); err != nil {
		return sessions.Session{}, err
	}

	tokens, err := s.api.Login(ctx, req)
	if err != nil {
		return sessions.Session{}, fmt.Errorf("[Service Login] %w", err)
	}
	if tokens.AccessToken == "" {
		return sessions.Session{}, ErrEmptyTokenResponse
	}

	s.logExpiry(tokens.AccessToken)
	if err := s.store.SetSession(ctx, tokens.AccessToken, tokens.RefreshToken, tokens.User); err != nil {
		return sessions.Session{}, fmt.Errorf("[Service Login] store session: %w", err)
	}
	if tokens.User != nil {
		return s.store.Snapshot(), nil
	}

	if err := s.store.RefreshProfile(ctx); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("profile not loaded after login")
	}
	return s.store.Snapshot(), nil
}

// Logout forgets the session locally. The backend keeps no server side
// session for access tokens, so there is nothing to call.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("[Service Logout] %w", err)
	}
	return nil
}

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.Profile, error) {
	if err := s.validator.ValidateRegistration(req); err != nil {
		return nil, err
	}
	profile, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("[Service Register] %w", err)
	}
	return profile, nil
}

// Restore loads the persisted session. It makes no network call.
func (s *Service) Restore(ctx context.Context) error {
	if err := s.store.Restore(ctx); err != nil {
		return err
	}
	if t := s.store.AccessToken(); t != "" {
		s.logExpiry(t)
	}
	return nil
}

// RefreshToken trades the stored refresh token for a new token pair. The
// cached profile is kept. Nothing calls this automatically.
func (s *Service) RefreshToken(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	tokens, err := s.api.Refresh(ctx, snap.RefreshToken)
	if err != nil {
		return fmt.Errorf("[Service RefreshToken] %w", err)
	}
	if tokens.AccessToken == "" {
		return ErrEmptyTokenResponse
	}
	if s.store.AccessToken() != snap.AccessToken {
		return autherrors.ErrSessionChanged
	}

	refreshToken := tokens.RefreshToken
	if refreshToken == "" {
		refreshToken = snap.RefreshToken
	}
	s.logExpiry(tokens.AccessToken)
	return s.store.SetSession(ctx, tokens.AccessToken, refreshToken, nil)
}

func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	change := PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if err := s.validator.ValidatePasswordChange(change, confirm); err != nil {
		return err
	}
	if !s.store.IsAuthenticated() {
		return autherrors.ErrNotAuthenticated
	}
	if err := s.api.ChangePassword(ctx, change); err != nil {
		return fmt.Errorf("[Service ChangePassword] %w", err)
	}
	return nil
}

// UpdateProfile saves the editable profile fields and caches the result.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.Profile, error) {
	if err := s.validator.ValidateProfileUpdate(update); err != nil {
		return nil, err
	}
	accessToken := s.store.AccessToken()
	if accessToken == "" {
		return nil, autherrors.ErrNotAuthenticated
	}

	profile, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("[Service UpdateProfile] %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("[Service UpdateProfile] %w: empty profile", autherrors.ErrInvalidRequest)
	}
	if err := s.store.SetProfile(ctx, accessToken, profile); err != nil {
		if errors.Is(err, autherrors.ErrSessionChanged) {
			return profile, err
		}
		return nil, fmt.Errorf("[Service UpdateProfile] %w", err)
	}
	return profile, nil
}

// logExpiry records when the access token runs out. The claims are not
// verified and are only logged.
func (s *Service) logExpiry(accessToken string) {
	info, err := token.Introspect(accessToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("access token is not a readable JWT")
		return
	}
	s.logger.Debug().
		Str("subject", info.Subject).
		Time("expires_at", info.ExpiresAt).
		Dur("expires_in", info.ExpiresIn()).
		Msg("access token")
}
