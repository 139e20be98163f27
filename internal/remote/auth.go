package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"

	"github.com/go-resty/resty/v2"
)

// AuthResult is returned by login and registration.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

// Login exchanges credentials for a token. Rejected credentials surface as *domain.AuthError.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", func(r *resty.Request) {
		r.SetBody(map[string]string{"email": email, "password": password})
	}, &out)
	if err != nil {
		return AuthResult{}, asAuthFailure(err)
	}
	return out, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", func(r *resty.Request) {
		r.SetBody(in)
	}, &out)
	if err != nil {
		return AuthResult{}, asAuthFailure(err)
	}
	return out, nil
}

// Me returns the profile bound to the current token.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}
