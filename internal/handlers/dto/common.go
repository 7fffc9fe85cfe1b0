package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs), acrescida de
// "error" (mensagem no idioma da requisição) e "message" (inglês)
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	*problems.Problem
	Details []FieldError `json:"details,omitempty"`
}

// FieldError representa um erro de validação de campo
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// MessageResponse é a resposta de sucesso sem corpo além da mensagem
type MessageResponse struct {
	Message string `json:"message"`
}

type problemKind struct {
	status   int
	typePath string
	titleKey string
}

var problemKinds = map[domainerrors.Kind]problemKind{
	domainerrors.KindValidation:      {http.StatusBadRequest, domainerrors.ProblemTypeValidation, "title.validation"},
	domainerrors.KindUnauthenticated: {http.StatusUnauthorized, domainerrors.ProblemTypeUnauthorized, "title.unauthorized"},
	domainerrors.KindForbidden:       {http.StatusForbidden, domainerrors.ProblemTypeForbidden, "title.forbidden"},
	domainerrors.KindNotFound:        {http.StatusNotFound, domainerrors.ProblemTypeNotFound, "title.not_found"},
	domainerrors.KindConflict:        {http.StatusBadRequest, domainerrors.ProblemTypeConflict, "title.conflict"},
	domainerrors.KindRateLimited:     {http.StatusTooManyRequests, domainerrors.ProblemTypeRateLimited, "title.rate_limited"},
	domainerrors.KindInternal:        {http.StatusInternalServerError, domainerrors.ProblemTypeInternal, "title.internal"},
}

// NewErrorResponse converte um erro de domínio no status HTTP e no envelope de erro
func NewErrorResponse(c *gin.Context, err error) (int, ErrorResponse) {
	kind := problemKinds[domainerrors.KindOf(err)]
	messageID := domainerrors.MessageID(err)

	response := newProblem(c, kind, messageID)

	var domainErr *domainerrors.DomainError
	switch {
	case errors.As(err, &domainErr) && domainErr.Message != "":
		response.Detail = domainErr.Message
	case kind.status == http.StatusInternalServerError && !httpctx.IsProduction(c):
		response.Detail = err.Error()
	}

	return kind.status, response
}

// ValidationErrorResponse cria uma resposta 400 com os erros por campo
func ValidationErrorResponse(c *gin.Context, details []FieldError) ErrorResponse {
	response := newProblem(c, problemKinds[domainerrors.KindValidation], domainerrors.ErrValidation.Error())
	response.Details = details
	return response
}

func newProblem(c *gin.Context, kind problemKind, messageID string) ErrorResponse {
	// Pegar base URL da configuração
	baseURL := c.GetString(httpctx.BaseURLKey)
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	problem := problems.NewStatusProblem(kind.status)
	problem.Type = baseURL + kind.typePath
	problem.Title = T(c, kind.titleKey)
	problem.Instance = c.Request.URL.Path

	return ErrorResponse{
		Error:   T(c, messageID),
		Message: English(c, messageID),
		Problem: problem,
	}
}
