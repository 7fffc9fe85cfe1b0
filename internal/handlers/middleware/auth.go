package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// AuthMiddleware resolve o bearer token na identidade atual do usuário
type AuthMiddleware struct {
	sessions *services.SessionService
	logger   ports.Logger
}

// NewAuthMiddleware cria um novo AuthMiddleware
func NewAuthMiddleware(sessions *services.SessionService, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticate exige um token válido de um usuário existente
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, m.logger, domainerrors.ErrUnauthorized)
			return
		}

		user, claims, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, m.logger, err)
			return
		}

		httpctx.SetIdentity(c, user, claims)
		c.Next()
	}
}

// OptionalAuth nunca falha: qualquer problema com o token resulta em anônimo
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			user, claims, err := m.sessions.Resolve(c.Request.Context(), token)
			if err == nil {
				httpctx.SetIdentity(c, user, claims)
			}
		}
		c.Next()
	}
}

// bearerToken extrai o token de "Authorization: Bearer <token>".
// Em upgrades WebSocket aceita também ?access_token=, já que navegadores não enviam o header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		token = strings.TrimSpace(c.Query("access_token"))
		return token, token != ""
	}
	return "", false
}

// abortWithError responde com o envelope de erro e interrompe a cadeia
func abortWithError(c *gin.Context, logger ports.Logger, err error) {
	status, response := dto.NewErrorResponse(c, err)
	if domainerrors.KindOf(err) == domainerrors.KindInternal {
		logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, response)
}
