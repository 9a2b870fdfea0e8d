package handlers

import (
	"net/http"

	"Tasker/internal/dto"
	"Tasker/internal/metrics"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	svc *service.AuthService
	log zerolog.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, log zerolog.Logger) *AuthHandler {
	registerValidators()
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary      Register
// @Description  Creates an account and returns an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Account"
// @Success      201   {object}  dto.Envelope{data=dto.AuthResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Failure      429   {object}  dto.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	metrics.RecordAuthAttempt("register", err == nil)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, authToResponse(res))
}

// Login godoc
// @Summary      Login
// @Description  Exchanges email and password for an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.Envelope{data=dto.AuthResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Failure      429   {object}  dto.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, authToResponse(res))
}

func authToResponse(res service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User: dto.UserResponse{
			ID:    res.User.ID.String(),
			Email: res.User.Email,
			Name:  res.User.Name,
		},
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(res.ExpiresIn.Seconds()),
	}
}
