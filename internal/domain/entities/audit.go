package entities

import "time"

// AuditAction identifica a ação administrativa registrada
type AuditAction string

const (
	AuditApproveVolunteer AuditAction = "approve_volunteer"
	AuditRejectVolunteer  AuditAction = "reject_volunteer"
	AuditPromoteAdmin     AuditAction = "promote_admin"
	AuditDemoteAdmin      AuditAction = "demote_admin"
	AuditDeleteUser       AuditAction = "delete_user"
)

// AuditLogEntry é um registro append-only de ação administrativa.
// AdminID e TargetUserID são referências fracas: viram nil quando o usuário é removido.
type AuditLogEntry struct {
	ID           string
	AdminID      *string
	Action       AuditAction
	TargetUserID *string
	Details      map[string]any
	CreatedAt    time.Time

	Admin      *UserSummary
	TargetUser *UserSummary
}
