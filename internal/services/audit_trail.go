package services

import (
	"context"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// AuditTrail grava e consulta o log de ações administrativas
type AuditTrail struct {
	repo      repositories.AuditRepository
	publisher ports.AuditPublisher
	logger    ports.Logger
}

// NewAuditTrail cria um AuditTrail; publisher pode ser nil
func NewAuditTrail(repo repositories.AuditRepository, publisher ports.AuditPublisher, logger ports.Logger) *AuditTrail {
	return &AuditTrail{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record grava a entrada e a publica. Falhas são logadas e nunca propagadas.
func (a *AuditTrail) Record(ctx context.Context, entry *entities.AuditLogEntry) {
	if err := a.repo.Append(ctx, entry); err != nil {
		a.logger.Error("failed to record audit entry",
			"error", err,
			"action", entry.Action,
		)
		return
	}

	if a.publisher != nil {
		a.publisher.Publish(entry)
	}
}

// Recent lista as entradas mais recentes; limit fora da faixa é ajustado
func (a *AuditTrail) Recent(ctx context.Context, grant policy.AdminGrant, limit int) ([]*entities.AuditLogEntry, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}
	return a.repo.Recent(ctx, ClampAuditLimit(limit))
}

// detach anula as referências de um usuário que será removido
func (a *AuditTrail) detach(ctx context.Context, userID string) error {
	return a.repo.DetachUser(ctx, userID)
}

// ClampAuditLimit aplica o padrão (50) e o teto (500)
func ClampAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultAuditLimit
	case limit > MaxAuditLimit:
		return MaxAuditLimit
	default:
		return limit
	}
}
