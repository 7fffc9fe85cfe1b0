package ports

import (
	"context"
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// TokenClaims é o snapshot de identidade embutido em um token emitido.
// Role reflete o papel no momento da emissão e é apenas indicativo.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Username  string
	Role      entities.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager emite e valida tokens de acesso assinados
type TokenManager interface {
	Issue(user *entities.User) (string, *TokenClaims, error)
	Verify(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// PasswordHasher aplica um hash lento e unidirecional sobre senhas
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenRevocations guarda IDs de tokens revogados até a expiração
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
