package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
)

// RBAC aplica as políticas de papel sobre a identidade já resolvida por Authenticate
type RBAC struct {
	logger ports.Logger
}

func NewRBAC(logger ports.Logger) *RBAC {
	return &RBAC{logger: logger}
}

// RequireRole permite somente os papéis listados
func (r *RBAC) RequireRole(allowed ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.RequireRole(httpctx.Identity(c), allowed...); err != nil {
			abortWithError(c, r.logger, err)
			return
		}
		c.Next()
	}
}

func (r *RBAC) RequireVerifiedVolunteer() gin.HandlerFunc {
	return r.RequireRole(policy.VolunteerRoles...)
}

// RequireAdmin registra a policy.AdminGrant no contexto para os handlers do console
func (r *RBAC) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		grant, err := policy.RequireAdmin(httpctx.Identity(c))
		if err != nil {
			abortWithError(c, r.logger, err)
			return
		}
		c.Set(httpctx.AdminGrantKey, grant)
		c.Next()
	}
}
