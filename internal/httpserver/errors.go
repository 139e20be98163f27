package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP statuses. Checkout errors are matched
// first because they may wrap a remote validation failure.
func statusFor(err error) (int, string) {
	var checkoutErr *domain.CheckoutError
	switch {
	case errors.As(err, &checkoutErr):
		if checkoutErr.Reason == "timeout" {
			return http.StatusGatewayTimeout, "checkout_timeout"
		}
		return http.StatusBadGateway, "checkout_failed"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrAuthFailure):
		return http.StatusUnauthorized, "auth_failed"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, "remote_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	resp := errorResponse{Error: code, Message: err.Error()}

	var verr *domain.ValidationError
	var aerr *domain.AuthError
	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
		resp.Message = verr.Reason
	case errors.As(err, &aerr) && aerr.Reason != "":
		resp.Message = aerr.Reason
	case status == http.StatusInternalServerError:
		resp.Message = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, field, reason string) {
	writeError(c, domain.NewValidationError(field, reason))
}
