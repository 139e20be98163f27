// Package session holds the authentication state of the running client.
package session

import (
	"context"
	"strings"
	"sync"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"

	"github.com/rs/zerolog"
)

// State is one immutable view of the session. The zero value is LoggedOut.
type State struct {
	User  domain.User `json:"user"`
	Token string      `json:"-"`
}

// IsAuthenticated holds exactly when both a user and a token are present.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User.Valid()
}

// Service is the Auth Session Machine. It is the only writer of the session repository.
type Service struct {
	repo   sessionrepo.Repository
	logger zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New builds the machine and restores any persisted session.
func New(ctx context.Context, repo sessionrepo.Repository, logger zerolog.Logger) *Service {
	s := &Service{repo: repo, logger: logger}
	s.Restore(ctx)
	return s
}

// Login replaces the current session with (user, token) and persists it.
// An invalid user or an empty token leaves the state unchanged.
func (s *Service) Login(ctx context.Context, user domain.User, token string) {
	token = strings.TrimSpace(token)
	if token == "" || !user.Valid() {
		s.logger.Warn().Msg("ignoring login without user or token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{User: user, Token: token}
	if err := s.repo.Save(ctx, token, user); err != nil {
		s.logger.Warn().Err(err).Msg("persist session")
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("logged in")
}

// Logout drops the session and its persisted copy. Calling it while logged out is harmless.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.state.IsAuthenticated()
	s.state = State{}
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("clear persisted session")
	}
	if was {
		s.logger.Info().Msg("logged out")
	}
}

// Restore reloads the session from the repository. Anything short of a complete,
// decodable record leaves the machine LoggedOut. It reports whether a session was restored.
func (s *Service) Restore(ctx context.Context) bool {
	rec, ok := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.state = State{}
		return false
	}
	s.state = State{User: rec.User, Token: rec.Token}
	s.logger.Debug().Str("user_id", rec.User.ID).Msg("session restored")
	return true
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the logged in user, if any.
func (s *Service) CurrentUser() (domain.User, bool) {
	st := s.State()
	return st.User, st.IsAuthenticated()
}

// Token returns the current bearer token or "" when logged out.
func (s *Service) Token() string {
	return s.State().Token
}

func (s *Service) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// RequireUser returns the current user or ErrUnauthenticated.
func (s *Service) RequireUser() (domain.User, error) {
	user, ok := s.CurrentUser()
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}

// RequireAdmin returns the current user if they hold the admin role.
func (s *Service) RequireAdmin() (domain.User, error) {
	user, err := s.RequireUser()
	if err != nil {
		return domain.User{}, err
	}
	if !user.Role.IsAdmin() {
		return domain.User{}, domain.ErrForbidden
	}
	return user, nil
}
