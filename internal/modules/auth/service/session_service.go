package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/auth/domain"
	authout "rehab/internal/modules/auth/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
	"rehab/internal/platform/slot"
)

const (
	LoginFailedMessage  = "Login failed. Please check your credentials."
	GoogleFailedMessage = "Google login failed. Please try again."

	// ProfilePath is excluded from rejection counting; its own 401/403
	// clears the session immediately.
	ProfilePath = "/auth/me"

	// RejectionLimit consecutive 401/403 responses on other authenticated
	// calls invalidate the session.
	RejectionLimit = 3
)

// SessionService owns the token and the user. Every other component reads
// the token through Token and never mutates it.
type SessionService struct {
	mu         sync.Mutex
	token      string
	user       *domain.User
	checking   bool
	generation uint64
	rejections int

	tokens  authout.TokenStore
	gateway authout.Gateway
	changes *slot.Slot[domain.Status]
	logger  hclog.Logger
}

func NewSessionService(tokens authout.TokenStore, gateway authout.Gateway, logger hclog.Logger) *SessionService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionService{
		tokens:  tokens,
		gateway: gateway,
		changes: slot.New[domain.Status](),
		logger:  logger,
	}
}

func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *SessionService) IsAuthenticated() bool {
	return s.State().Authenticated()
}

func (s *SessionService) State() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Changes subscribes to session state changes.
func (s *SessionService) Changes() (<-chan domain.Status, func()) {
	return s.changes.Subscribe()
}

// Restore loads the persisted token and validates it with a profile fetch.
func (s *SessionService) Restore(ctx context.Context) (domain.Status, error) {
	token, ok, err := s.tokens.Load(ctx)
	if err != nil {
		return s.State(), fmt.Errorf("load token: %w", err)
	}
	if !ok || token == "" {
		s.publish()
		return s.State(), nil
	}
	gen := s.install(token)
	return s.refresh(ctx, gen)
}

// SetToken persists token, or clears it when empty, and re-fetches the profile.
func (s *SessionService) SetToken(ctx context.Context, token string) (domain.Status, error) {
	s.mu.Lock()
	var err error
	if token == "" {
		err = s.tokens.Clear(ctx)
	} else {
		err = s.tokens.Save(ctx, token)
	}
	s.mu.Unlock()
	if err != nil {
		return s.State(), fmt.Errorf("persist token: %w", err)
	}
	gen := s.install(token)
	if token == "" {
		return s.State(), nil
	}
	return s.refresh(ctx, gen)
}

// Refresh re-runs the profile fetch for the current token.
func (s *SessionService) Refresh(ctx context.Context) (domain.Status, error) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return s.State(), apperrors.ErrNotAuthenticated
	}
	s.checking = true
	gen := s.generation
	s.mu.Unlock()
	s.publish()
	return s.refresh(ctx, gen)
}

func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Status, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return s.State(), err
	}
	token, err := s.gateway.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return s.State(), apperrors.WithMessage(err, LoginFailedMessage)
	}
	return s.SetToken(ctx, token)
}

func (s *SessionService) LoginWithOAuthCredential(ctx context.Context, providerToken string) (domain.Status, error) {
	if strings.TrimSpace(providerToken) == "" {
		return s.State(), &apperrors.ValidationError{Fields: map[string]string{"token": "required"}}
	}
	token, err := s.gateway.LoginGoogle(ctx, providerToken)
	if err != nil {
		return s.State(), apperrors.WithMessage(err, GoogleFailedMessage)
	}
	return s.SetToken(ctx, token)
}

// Logout drops token and user in one step. In-flight profile fetches for the
// old token are discarded when they return.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.invalidate(ctx)
	s.publish()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// ReplaceUser installs a user returned by an account update for the current token.
func (s *SessionService) ReplaceUser(user domain.User) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.user = &user
	s.mu.Unlock()
	s.publish()
}

// ObserveStatus counts consecutive auth rejections on authenticated calls
// outside the profile fetch.
func (s *SessionService) ObserveStatus(path string, status int) {
	if path == ProfilePath || strings.HasPrefix(path, "/auth/login") {
		return
	}
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		s.rejections++
	case status >= 200 && status <= 299:
		s.rejections = 0
	}
	exceeded := s.rejections >= RejectionLimit
	s.mu.Unlock()

	if exceeded {
		s.logger.Warn("session invalidated after repeated auth rejections", "limit", RejectionLimit, "path", path)
		if err := s.invalidate(context.Background()); err != nil {
			s.logger.Error("clear token", "error", err)
		}
		s.publish()
	}
}

func (s *SessionService) install(token string) uint64 {
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.checking = token != ""
	s.rejections = 0
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	s.publish()
	return gen
}

func (s *SessionService) refresh(ctx context.Context, gen uint64) (domain.Status, error) {
	user, err := s.gateway.Me(ctx)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding profile result for a replaced token")
		return s.State(), nil
	}
	s.checking = false
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			s.token = ""
			s.user = nil
			s.rejections = 0
			s.generation++
			clearErr := s.tokens.Clear(ctx)
			s.mu.Unlock()
			if clearErr != nil {
				s.logger.Error("clear rejected token", "error", clearErr)
			}
			s.logger.Info("session invalidated by profile fetch", "status", apperrors.Status(err))
			s.publish()
			return s.State(), err
		}
		s.mu.Unlock()
		s.logger.Warn("profile fetch failed, keeping token", "error", err)
		s.publish()
		return s.State(), fmt.Errorf("fetch profile: %w", err)
	}
	s.user = &user
	s.mu.Unlock()
	s.publish()
	return s.State(), nil
}

func (s *SessionService) invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.checking = false
	s.rejections = 0
	s.generation++
	return s.tokens.Clear(ctx)
}

func (s *SessionService) snapshot() domain.Status {
	st := domain.Status{HasToken: s.token != "", Checking: s.checking}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// publish reads and sets under one lock so that the last value subscribers
// see is never older than the state it follows.
func (s *SessionService) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes.Set(s.snapshot())
}
