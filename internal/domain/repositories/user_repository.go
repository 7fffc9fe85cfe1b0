package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// ErrDuplicateKey indica violação de unicidade na escrita
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository define o acesso regular (não privilegiado) a usuários
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*entities.User, error)
}

// UserAdminRepository define o acesso privilegiado, liberado somente após a política de admin
type UserAdminRepository interface {
	UserRepository
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)
	CountByRole(ctx context.Context) (map[entities.Role]int64, error)
	// TransitionRole aplica a transição somente se o papel atual estiver em From.
	// Retorna (nil, nil) quando nenhuma linha atende à condição.
	TransitionRole(ctx context.Context, id string, transition RoleTransition) (*entities.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileUpdate contém os campos que o próprio usuário pode alterar
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Merhav   *entities.Merhav
}

// IsEmpty indica se não há campo para atualizar
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Phone == nil && u.Merhav == nil
}

// RoleTransition descreve uma atualização condicional (compare-and-swap) de papel
type RoleTransition struct {
	From                      []entities.Role
	To                        entities.Role
	ExcludeUsername           string
	ApprovedBy                *string
	ApprovedAt                *time.Time
	ClearVolunteerDeclaration bool
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Role   *entities.Role
	Search string
}
