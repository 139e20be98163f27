package remote

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

// APIError is a non-2xx answer from the catalog/order service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Detail)
}

// Is maps HTTP statuses onto the storefront error taxonomy.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case domain.ErrRemoteUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// errorBody matches the service's error payload.
type errorBody struct {
	Detail any `json:"detail"`
}

func (b *errorBody) message() string {
	switch d := b.Detail.(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		return fmt.Sprint(d)
	}
}

// asAuthFailure turns credential rejections into an AuthError carrying the service's reason.
func asAuthFailure(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return &domain.AuthError{Reason: apiErr.Detail}
	}
	return err
}

func unavailable(err error) error {
	return errors.Join(domain.ErrRemoteUnavailable, err)
}
