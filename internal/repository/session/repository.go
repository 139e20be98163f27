package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
)

// Keys of the two-field schema. Nothing else is ever persisted.
const (
	TokenKey = "session_token"
	UserKey  = "session_user"
)

// ErrCorrupt marks stored data that could not be decoded. It never escapes Load.
var ErrCorrupt = errors.New("corrupt session data")

// Backend is a string key/value medium that survives process restarts.
type Backend interface {
	Read(ctx context.Context, keys ...string) (map[string]string, error)
	Write(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Record is a persisted session.
type Record struct {
	Token string
	User  domain.User
}

// Repository persists exactly the session token and the user profile.
type Repository interface {
	Save(ctx context.Context, token string, user domain.User) error
	// Load returns the stored session. Missing keys, read failures and corrupt
	// data all report ok == false; Load never returns an error.
	Load(ctx context.Context) (rec Record, ok bool)
	Clear(ctx context.Context) error
}

type repo struct {
	backend Backend
	logger  zerolog.Logger
}

// New wraps a backend with the session schema and the degrade-to-absent policy.
func New(backend Backend, logger zerolog.Logger) Repository {
	return &repo{backend: backend, logger: logger}
}

func (r *repo) Save(ctx context.Context, token string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.backend.Write(ctx, map[string]string{
		TokenKey: token,
		UserKey:  string(raw),
	})
}

func (r *repo) Load(ctx context.Context) (Record, bool) {
	values, err := r.backend.Read(ctx, TokenKey, UserKey)
	if err != nil {
		r.logger.Warn().Err(err).Msg("read stored session")
		return Record{}, false
	}
	token := strings.TrimSpace(values[TokenKey])
	rawUser, hasUser := values[UserKey]
	if token == "" || !hasUser {
		return Record{}, false
	}
	user, err := decodeUser(rawUser)
	if err != nil {
		r.logger.Warn().Err(err).Msg("discarding stored session")
		return Record{}, false
	}
	return Record{Token: token, User: user}, true
}

func (r *repo) Clear(ctx context.Context) error {
	return r.backend.Delete(ctx, TokenKey, UserKey)
}

func decodeUser(raw string) (domain.User, error) {
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, errors.Join(ErrCorrupt, err)
	}
	if !user.Valid() {
		return domain.User{}, ErrCorrupt
	}
	return user, nil
}
