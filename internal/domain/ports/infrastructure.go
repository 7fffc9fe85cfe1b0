package ports

import (
	"context"
	"io"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// ImageStore persiste imagens enviadas e devolve a referência pública
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// RateLimiter decide se mais uma tentativa cabe na janela atual da chave
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AuditPublisher recebe entradas de auditoria recém gravadas
type AuditPublisher interface {
	Publish(entry *entities.AuditLogEntry)
}

// ActionRecorder contabiliza eventos de domínio para observabilidade
type ActionRecorder interface {
	AdminAction(action entities.AuditAction)
	LoginAttempt(outcome string)
}
