package services

import (
	"context"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// SessionService transforma um bearer token na identidade atual do usuário
type SessionService struct {
	tokens      ports.TokenManager
	revocations ports.TokenRevocations
	users       repositories.UserRepository
	logger      ports.Logger
}

// NewSessionService cria um novo SessionService
func NewSessionService(
	tokens ports.TokenManager,
	revocations ports.TokenRevocations,
	users repositories.UserRepository,
	logger ports.Logger,
) *SessionService {
	return &SessionService{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		logger:      logger,
	}
}

// Resolve valida o token e carrega o usuário do banco; o papel vem sempre da linha atual
func (s *SessionService) Resolve(ctx context.Context, token string) (*entities.User, *ports.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, domainerrors.ErrInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Warn("revocation check failed, accepting token", "error", err)
	}
	if revoked {
		return nil, nil, domainerrors.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domainerrors.ErrProfileNotFound
	}

	return user, claims, nil
}
