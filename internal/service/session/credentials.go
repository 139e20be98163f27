package session

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/remote"

	"github.com/rs/zerolog"
)

// Authenticator is the part of the remote client that deals in credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (remote.AuthResult, error)
	Register(ctx context.Context, in remote.RegisterInput) (remote.AuthResult, error)
	Me(ctx context.Context) (domain.User, error)
}

// Credentials obtains tokens from the remote service and feeds them into the machine.
type Credentials struct {
	sessions *Service
	auth     Authenticator
	logger   zerolog.Logger
}

func NewCredentials(sessions *Service, auth Authenticator, logger zerolog.Logger) *Credentials {
	return &Credentials{sessions: sessions, auth: auth, logger: logger}
}

// SignUpInput carries the registration form.
type SignUpInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SignIn logs in with email and password. A credential rejection leaves the machine LoggedOut.
func (c *Credentials) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.NewValidationError("email", "required")
	}
	if password == "" {
		return domain.User{}, domain.NewValidationError("password", "required")
	}
	res, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, c.failed(ctx, err)
	}
	return c.accept(ctx, res)
}

// SignUp registers an account and logs it in.
func (c *Credentials) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Name == "":
		return domain.User{}, domain.NewValidationError("name", "required")
	case in.Email == "":
		return domain.User{}, domain.NewValidationError("email", "required")
	case in.Password == "":
		return domain.User{}, domain.NewValidationError("password", "required")
	}
	if in.Role == "" {
		in.Role = domain.RoleCustomer
	}
	res, err := c.auth.Register(ctx, remote.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return domain.User{}, c.failed(ctx, err)
	}
	return c.accept(ctx, res)
}

// Refresh revalidates the current session against the remote service and stores the
// fresh profile. A rejected token logs the session out.
func (c *Credentials) Refresh(ctx context.Context) (domain.User, error) {
	st := c.sessions.State()
	if !st.IsAuthenticated() {
		return domain.User{}, domain.ErrUnauthenticated
	}
	user, err := c.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.logger.Info().Msg("stored session rejected by remote service")
			c.sessions.Logout(ctx)
		}
		return domain.User{}, err
	}
	if c.sessions.Token() == st.Token {
		c.sessions.Login(ctx, user, st.Token)
	}
	return user, nil
}

func (c *Credentials) accept(ctx context.Context, res remote.AuthResult) (domain.User, error) {
	if res.AccessToken == "" || !res.User.Valid() {
		return domain.User{}, &domain.AuthError{Reason: "incomplete credentials in response"}
	}
	c.sessions.Login(ctx, res.User, res.AccessToken)
	return res.User, nil
}

func (c *Credentials) failed(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrAuthFailure) {
		c.sessions.Logout(ctx)
	}
	return err
}
