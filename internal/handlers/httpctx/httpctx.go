// Package httpctx guarda as chaves e os acessores dos valores por requisição no gin.Context.
package httpctx

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n"
)

const (
	LanguageKey    = "language"
	I18nServiceKey = "i18n_service"
	IdentityKey    = "identity"
	ClaimsKey      = "token_claims"
	AdminGrantKey  = "admin_grant"
	BaseURLKey     = "base_url"
	EnvKey         = "env"
)

// FallbackLanguage é usado quando nenhum middleware definiu o idioma
const FallbackLanguage = "he"

// SetIdentity associa o usuário autenticado e as claims do token à requisição
func SetIdentity(c *gin.Context, user *entities.User, claims *ports.TokenClaims) {
	c.Set(IdentityKey, user)
	c.Set(ClaimsKey, claims)
}

// Identity retorna o usuário autenticado ou nil para anônimos
func Identity(c *gin.Context) *entities.User {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	user, _ := value.(*entities.User)
	return user
}

func Claims(c *gin.Context) *ports.TokenClaims {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*ports.TokenClaims)
	return claims
}

// AdminGrant retorna a concessão emitida pelo middleware de admin; o valor zero é inválido
func AdminGrant(c *gin.Context) policy.AdminGrant {
	value, exists := c.Get(AdminGrantKey)
	if !exists {
		return policy.AdminGrant{}
	}
	grant, _ := value.(policy.AdminGrant)
	return grant
}

// Language retorna o idioma detectado para a requisição
func Language(c *gin.Context) string {
	if lang := c.GetString(LanguageKey); lang != "" {
		return lang
	}
	return FallbackLanguage
}

// Translator retorna o serviço de i18n, se o middleware o registrou
func Translator(c *gin.Context) *i18n.Service {
	value, exists := c.Get(I18nServiceKey)
	if !exists {
		return nil
	}
	service, _ := value.(*i18n.Service)
	return service
}

// IsProduction indica se detalhes internos devem ser omitidos das respostas
func IsProduction(c *gin.Context) bool {
	return c.GetString(EnvKey) == "production"
}
