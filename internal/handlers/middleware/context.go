package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
)

// RequestContext publica valores de configuração usados na montagem das respostas
func RequestContext(baseURL, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(httpctx.BaseURLKey, baseURL)
		c.Set(httpctx.EnvKey, env)
		c.Next()
	}
}
