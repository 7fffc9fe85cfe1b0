package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// Resultados de login contabilizados pelo ActionRecorder
const (
	LoginSucceeded          = "success"
	LoginInvalidCredentials = "invalid_credentials"
)

// AuthService contém a lógica de cadastro, login e perfil
type AuthService struct {
	userRepo    repositories.UserRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenManager
	revocations ports.TokenRevocations
	recorder    ports.ActionRecorder
	logger      ports.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	revocations ports.TokenRevocations,
	recorder ports.ActionRecorder,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		recorder:    recorder,
		logger:      logger,
	}
}

// RegisterInput representa os dados para criar uma conta
type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	FullName             string
	Phone                string
	Merhav               entities.Merhav
	VolunteerDeclaration bool
}

// ProfileInput contém os campos de perfil que o próprio usuário altera
type ProfileInput struct {
	FullName *string
	Phone    *string
	Merhav   *entities.Merhav
}

// AuthResult é o usuário autenticado com o token emitido
type AuthResult struct {
	User   *entities.User
	Token  string
	Claims *ports.TokenClaims
}

// ExpiresIn retorna a validade do token em segundos
func (r *AuthResult) ExpiresIn() int64 {
	return int64(r.Claims.ExpiresAt.Sub(r.Claims.IssuedAt) / time.Second)
}

// Register cria um usuário com papel user ou pending_volunteer e já emite o token
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	s.logger.Info("registering user", "username", input.Username)

	if strings.TrimSpace(input.Phone) == "" {
		return nil, domainerrors.ErrPhoneRequired
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.ErrUsernameTaken
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:             input.Username,
		Email:                email,
		PasswordHash:         hash,
		FullName:             strings.TrimSpace(input.FullName),
		Phone:                strings.TrimSpace(input.Phone),
		Merhav:               input.Merhav,
		Role:                 entities.InitialRole(input.VolunteerDeclaration),
		VolunteerDeclaration: input.VolunteerDeclaration,
	}

	if err := user.Validate(); err != nil {
		return nil, domainerrors.NewValidationError(err.Error(), domainerrors.ErrValidation)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, s.duplicateCause(ctx, user.Username)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return s.issue(user)
}

// duplicateCause decide qual chave única colidiu numa corrida de cadastro
func (s *AuthService) duplicateCause(ctx context.Context, username string) error {
	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return domainerrors.ErrUsernameTaken
	}
	return domainerrors.ErrEmailTaken
}

// Login autentica por username e senha. Usuário inexistente e senha errada
// produzem o mesmo erro e o mesmo custo de bcrypt.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		_ = s.hasher.Compare(s.dummy(), password)
		s.recorder.LoginAttempt(LoginInvalidCredentials)
		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.recorder.LoginAttempt(LoginInvalidCredentials)
		return nil, domainerrors.ErrInvalidCredentials
	}

	s.recorder.LoginAttempt(LoginSucceeded)
	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issue(user)
}

// Logout revoga o token apresentado até a sua expiração
func (s *AuthService) Logout(ctx context.Context, claims *ports.TokenClaims) error {
	if claims == nil {
		return domainerrors.ErrUnauthorized
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return err
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// UpdateProfile altera nome, telefone e merhav do próprio usuário
func (s *AuthService) UpdateProfile(ctx context.Context, identity *entities.User, input ProfileInput) (*entities.User, error) {
	if identity == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	update := repositories.ProfileUpdate{}

	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		name := strings.TrimSpace(*input.FullName)
		if len([]rune(name)) < 2 {
			return nil, domainerrors.NewValidationError("full name must be at least 2 characters", domainerrors.ErrValidation)
		}
		update.FullName = &name
	}

	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, domainerrors.ErrPhoneRequired
		}
		update.Phone = &phone
	}

	if input.Merhav != nil && *input.Merhav != "" {
		if !input.Merhav.IsValid() {
			return nil, domainerrors.NewValidationError("invalid merhav", domainerrors.ErrValidation)
		}
		update.Merhav = input.Merhav
	}

	user, err := s.userRepo.UpdateProfile(ctx, identity.ID, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issue(user *entities.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, Claims: claims}, nil
}

// dummy devolve um hash válido usado para igualar o tempo de resposta do login
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("gearshare-timing-equalizer")
		if err != nil {
			s.logger.Error("failed to build dummy password hash", "error", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
