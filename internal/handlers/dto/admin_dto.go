package dto

import (
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// ListUsersQuery são os filtros da listagem de usuários do console
type ListUsersQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=user pending_volunteer verified_volunteer admin"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

func (q ListUsersQuery) ToFilters() repositories.UserFilters {
	filters := repositories.UserFilters{Search: q.Search}
	if role, ok := entities.ParseRole(q.Role); ok {
		filters.Role = &role
	}
	return filters
}

// AuditLogQuery limita o número de entradas retornadas
type AuditLogQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// StatsResponse contém os contadores do console
type StatsResponse struct {
	Stats StatsPayload `json:"stats"`
}

type StatsPayload struct {
	TotalUsers         int64 `json:"total_users"`
	PendingVolunteers  int64 `json:"pending_volunteers"`
	VerifiedVolunteers int64 `json:"verified_volunteers"`
	Admins             int64 `json:"admins"`
	RegularUsers       int64 `json:"regular_users"`
	ActiveListings     int64 `json:"active_listings"`
}

// PendingResponse lista cadastros aguardando aprovação
type PendingResponse struct {
	Pending []UserResponse `json:"pending"`
}

// UsersResponse lista usuários
type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

// UserActionResponse é a resposta de uma transição de papel
type UserActionResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// DeleteUserResponse é a resposta da remoção de usuário
type DeleteUserResponse struct {
	Message     string `json:"message"`
	DeletedUser string `json:"deleted_user"`
}

// PersonResponse é a projeção de usuário exibida no log de auditoria
type PersonResponse struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AuditEntryResponse representa uma entrada do log de auditoria
type AuditEntryResponse struct {
	ID           string          `json:"id"`
	AdminID      *string         `json:"admin_id"`
	Action       string          `json:"action"`
	TargetUserID *string         `json:"target_user_id"`
	Details      map[string]any  `json:"details"`
	CreatedAt    time.Time       `json:"created_at"`
	Admin        *PersonResponse `json:"admin"`
	TargetUser   *PersonResponse `json:"target_user"`
}

// AuditLogResponse lista entradas do log de auditoria
type AuditLogResponse struct {
	Log []AuditEntryResponse `json:"log"`
}

func ToStatsResponse(stats *services.Stats) StatsResponse {
	return StatsResponse{Stats: StatsPayload{
		TotalUsers:         stats.TotalUsers,
		PendingVolunteers:  stats.PendingVolunteers,
		VerifiedVolunteers: stats.VerifiedVolunteers,
		Admins:             stats.Admins,
		RegularUsers:       stats.RegularUsers,
		ActiveListings:     stats.ActiveListings,
	}}
}

// ToAuditEntryResponse converte uma entrada de auditoria; também usado no stream
func ToAuditEntryResponse(entry *entities.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:           entry.ID,
		AdminID:      entry.AdminID,
		Action:       string(entry.Action),
		TargetUserID: entry.TargetUserID,
		Details:      entry.Details,
		CreatedAt:    entry.CreatedAt,
		Admin:        toPerson(entry.Admin),
		TargetUser:   toPerson(entry.TargetUser),
	}
}

func ToAuditEntryResponses(entries []*entities.AuditLogEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToAuditEntryResponse(entry)
	}
	return responses
}

func toPerson(summary *entities.UserSummary) *PersonResponse {
	if summary == nil {
		return nil
	}
	return &PersonResponse{FullName: summary.FullName, Email: summary.Email}
}
