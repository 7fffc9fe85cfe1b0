package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// AuthHandler lida com cadastro, login, logout e perfil
type AuthHandler struct {
	authService *services.AuthService
	logger      ports.Logger
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(authService *services.AuthService, logger ports.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register cria uma conta
// @Summary      Cadastro
// @Description  Cria um usuário; volunteer_declaration deixa a conta pendente de aprovação
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterRequest  true  "Dados do cadastro"
// @Success      201      {object}  dto.AuthResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      429      {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(dto.T(c, "auth.registered"), result))
}

// Login autentica por username e senha
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "Credenciais"
// @Success      200      {object}  dto.AuthResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      429      {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(dto.T(c, "auth.logged_in"), result))
}

// Logout revoga o token atual
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), httpctx.Claims(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.T(c, "auth.logged_out")})
}

// Me retorna o perfil atual
// @Summary      Perfil atual
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := dto.ToUserResponse(httpctx.Identity(c))
	c.JSON(http.StatusOK, dto.ProfileResponse{User: &user, Profile: user})
}

// UpdateProfile altera nome, telefone e merhav do próprio usuário
// @Summary      Editar perfil
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.UpdateProfileRequest  true  "Campos alterados"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Router       /api/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), httpctx.Identity(c), req.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Message: dto.T(c, "auth.profile_updated"),
		Profile: dto.ToUserResponse(user),
	})
}
