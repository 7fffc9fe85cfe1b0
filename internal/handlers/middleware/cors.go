package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configura CORS para a aplicação a partir da lista separada por vírgulas
func CORS(allowedOrigins string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			config.AllowOriginFunc = func(string) bool { return true }
		default:
			config.AllowOrigins = append(config.AllowOrigins, origin)
		}
	}

	if len(config.AllowOrigins) == 0 && config.AllowOriginFunc == nil {
		config.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(config)
}
