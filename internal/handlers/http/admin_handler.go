package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// AuditStream aceita conexões que recebem o log de auditoria em tempo real
type AuditStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// AdminHandler expõe o console administrativo
type AdminHandler struct {
	adminService *services.AdminService
	stream       AuditStream
	logger       ports.Logger
}

// NewAdminHandler cria um novo AdminHandler; stream nil desativa o endpoint de stream
func NewAdminHandler(adminService *services.AdminService, stream AuditStream, logger ports.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		stream:       stream,
		logger:       logger,
	}
}

type userAction func(*services.AdminService, *gin.Context, string) (*entities.User, error)

// Stats retorna os contadores do console
// @Summary      Estatísticas
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context(), httpctx.AdminGrant(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// PendingVolunteers lista cadastros aguardando aprovação, mais recentes primeiro
// @Summary      Voluntários pendentes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PendingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/pending-volunteers [get]
func (h *AdminHandler) PendingVolunteers(c *gin.Context) {
	users, err := h.adminService.PendingVolunteers(c.Request.Context(), httpctx.AdminGrant(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.PendingResponse{Pending: dto.ToUserResponses(users)})
}

// ListUsers lista usuários com filtro opcional de papel e busca
// @Summary      Usuários
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Papel"
// @Param        search  query     string  false  "Busca por username, nome ou telefone"
// @Success      200     {object}  dto.UsersResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), httpctx.AdminGrant(c), query.ToFilters())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.UsersResponse{Users: dto.ToUserResponses(users)})
}

// Approve aprova um voluntário pendente
// @Summary      Aprovar voluntário
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "ID do usuário"
// @Success      200     {object}  dto.UserActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/approve-volunteer/{userId} [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	h.transition(c, "admin.volunteer_approved", func(s *services.AdminService, c *gin.Context, id string) (*entities.User, error) {
		return s.ApproveVolunteer(c.Request.Context(), httpctx.AdminGrant(c), id)
	})
}

// Reject devolve um voluntário pendente ao papel user
// @Summary      Rejeitar voluntário
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "ID do usuário"
// @Success      200     {object}  dto.UserActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/reject-volunteer/{userId} [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	h.transition(c, "admin.volunteer_rejected", func(s *services.AdminService, c *gin.Context, id string) (*entities.User, error) {
		return s.RejectVolunteer(c.Request.Context(), httpctx.AdminGrant(c), id)
	})
}

// Promote concede o papel admin
// @Summary      Promover a admin
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "ID do usuário"
// @Success      200     {object}  dto.UserActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/promote-admin/{userId} [post]
func (h *AdminHandler) Promote(c *gin.Context) {
	h.transition(c, "admin.promoted", func(s *services.AdminService, c *gin.Context, id string) (*entities.User, error) {
		return s.PromoteAdmin(c.Request.Context(), httpctx.AdminGrant(c), id)
	})
}

// Demote rebaixa um admin para user; a conta protegida e o próprio admin são recusados
// @Summary      Rebaixar admin
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "ID do usuário"
// @Success      200     {object}  dto.UserActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/demote-admin/{userId} [post]
func (h *AdminHandler) Demote(c *gin.Context) {
	h.transition(c, "admin.demoted", func(s *services.AdminService, c *gin.Context, id string) (*entities.User, error) {
		return s.DemoteAdmin(c.Request.Context(), httpctx.AdminGrant(c), id)
	})
}

// DeleteUser remove o usuário, seus anúncios e imagens
// @Summary      Remover usuário
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "ID do usuário"
// @Success      200     {object}  dto.DeleteUserResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.adminService.DeleteUser(c.Request.Context(), httpctx.AdminGrant(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteUserResponse{
		Message:     dto.T(c, "admin.user_deleted"),
		DeletedUser: user.FullName,
	})
}

// AuditLog retorna as entradas mais recentes primeiro
// @Summary      Log de auditoria
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Máximo de entradas (padrão 50, até 500)"
// @Success      200    {object}  dto.AuditLogResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/admin/audit-log [get]
func (h *AdminHandler) AuditLog(c *gin.Context) {
	var query dto.AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.adminService.AuditLog(c.Request.Context(), httpctx.AdminGrant(c), query.Limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuditLogResponse{Log: dto.ToAuditEntryResponses(entries)})
}

// Stream abre o WebSocket que recebe cada nova entrada de auditoria
// @Summary      Stream do log de auditoria
// @Description  Upgrade para WebSocket; o token pode ir em ?access_token=
// @Tags         admin
// @Security     BearerAuth
// @Success      101
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/audit-log/stream [get]
func (h *AdminHandler) Stream(c *gin.Context) {
	if h.stream == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.stream.ServeWS(c.Writer, c.Request)
}

func (h *AdminHandler) transition(c *gin.Context, messageKey string, action userAction) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := action(h.adminService, c, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserActionResponse{
		Message: dto.T(c, messageKey),
		User:    dto.ToUserResponse(user),
	})
}
