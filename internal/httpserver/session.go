package httpserver

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	sessionsvc "storefront/internal/service/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *domain.User `json:"user"`
	ExpiresAt       *time.Time   `json:"expiresAt,omitempty"`
}

func (h *handlers) sessionView() sessionResponse {
	st := h.deps.Sessions.State()
	resp := sessionResponse{IsAuthenticated: st.IsAuthenticated()}
	if resp.IsAuthenticated {
		user := st.User
		resp.User = &user
		if exp, ok := h.deps.Sessions.ExpiresAt(); ok {
			resp.ExpiresAt = &exp
		}
	}
	return resp
}

func (h *handlers) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionView())
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", err.Error())
		return
	}
	if _, err := h.deps.Credentials.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionView())
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", err.Error())
		return
	}
	_, err := h.deps.Credentials.SignUp(c.Request.Context(), sessionsvc.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.sessionView())
}

func (h *handlers) refresh(c *gin.Context) {
	if _, err := h.deps.Credentials.Refresh(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionView())
}

func (h *handlers) logout(c *gin.Context) {
	h.deps.Sessions.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}
