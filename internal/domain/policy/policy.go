// Package policy concentra as decisões de acesso baseadas em papel.
// Cada conjunto permitido é explícito: não há herança entre papéis.
package policy

import (
	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/errors"
)

// VolunteerRoles são os papéis que enxergam e publicam anúncios restritos
var VolunteerRoles = []entities.Role{entities.RoleVerifiedVolunteer, entities.RoleAdmin}

// AdminRoles são os papéis com acesso ao console administrativo
var AdminRoles = []entities.Role{entities.RoleAdmin}

// Owned é implementado por recursos que pertencem a um usuário
type Owned interface {
	OwnedBy() string
}

// RequireRole falha com ErrUnauthorized sem identidade e ErrForbidden fora do conjunto
func RequireRole(identity *entities.User, allowed ...entities.Role) error {
	if identity == nil {
		return errors.ErrUnauthorized
	}
	if !identity.Role.In(allowed...) {
		return errors.ErrForbidden
	}
	return nil
}

func RequireVerifiedVolunteer(identity *entities.User) error {
	return RequireRole(identity, VolunteerRoles...)
}

// RequireAdmin devolve a concessão que libera o acesso privilegiado
func RequireAdmin(identity *entities.User) (AdminGrant, error) {
	if err := RequireRole(identity, AdminRoles...); err != nil {
		return AdminGrant{}, err
	}
	return AdminGrant{actor: identity}, nil
}

// RequireOwnershipOrAdmin permite admins ou o dono do recurso
func RequireOwnershipOrAdmin(identity *entities.User, resource Owned) error {
	if identity == nil {
		return errors.ErrUnauthorized
	}
	if identity.IsAdmin() {
		return nil
	}
	if resource != nil && resource.OwnedBy() == identity.ID {
		return nil
	}
	return errors.ErrNotListingOwner
}

// CanViewVolunteerOnly indica se a identidade (ou anônimo) vê anúncios restritos
func CanViewVolunteerOnly(identity *entities.User) bool {
	return identity != nil && identity.Role.In(VolunteerRoles...)
}

// AdminGrant é a capacidade emitida após a política aprovar um admin.
// O valor zero não é válido.
type AdminGrant struct {
	actor *entities.User
}

// Actor retorna o administrador que recebeu a concessão
func (g AdminGrant) Actor() *entities.User {
	return g.actor
}

// Valid indica se a concessão foi emitida por RequireAdmin
func (g AdminGrant) Valid() bool {
	return g.actor != nil && g.actor.IsAdmin()
}
