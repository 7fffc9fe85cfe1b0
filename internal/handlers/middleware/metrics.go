package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver recebe uma observação por requisição atendida
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, duration time.Duration)
}

// Metrics mede status e duração usando o template da rota, não o caminho bruto
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
