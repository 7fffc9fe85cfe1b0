package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
)

// EnglishLanguage é o idioma do campo "message" das respostas
const EnglishLanguage = "en"

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "listing.created")
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	return translate(c, httpctx.Language(c), key, params...)
}

// English traduz a chave sempre para inglês, independente do idioma da requisição
func English(c *gin.Context, key string, params ...map[string]interface{}) string {
	return translate(c, EnglishLanguage, key, params...)
}

func translate(c *gin.Context, lang, key string, params ...map[string]interface{}) string {
	service := httpctx.Translator(c)
	if service == nil {
		// Fallback: retornar a chave se serviço não estiver disponível
		return key
	}
	return service.T(lang, key, params...)
}
