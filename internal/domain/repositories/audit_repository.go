package repositories

import (
	"context"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// AuditRepository é append-only: além de inserir, só permite anular referências
type AuditRepository interface {
	Append(ctx context.Context, entry *entities.AuditLogEntry) error
	Recent(ctx context.Context, limit int) ([]*entities.AuditLogEntry, error)
	// DetachUser anula admin_id e target_user_id que apontam para o usuário
	DetachUser(ctx context.Context, userID string) error
}
