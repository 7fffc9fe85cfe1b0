package services

import (
	"context"
	"strings"
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// AdminService executa a máquina de estados de papéis e as consultas do console.
// Toda operação exige uma policy.AdminGrant.
type AdminService struct {
	userRepo          repositories.UserAdminRepository
	listingRepo       repositories.ListingRepository
	audit             *AuditTrail
	images            ports.ImageStore // opcional
	uow               ports.UnitOfWork
	recorder          ports.ActionRecorder
	logger            ports.Logger
	protectedUsername string
	now               func() time.Time
}

// NewAdminService cria um novo AdminService
func NewAdminService(
	userRepo repositories.UserAdminRepository,
	listingRepo repositories.ListingRepository,
	audit *AuditTrail,
	images ports.ImageStore,
	uow ports.UnitOfWork,
	recorder ports.ActionRecorder,
	protectedUsername string,
	logger ports.Logger,
) *AdminService {
	return &AdminService{
		userRepo:          userRepo,
		listingRepo:       listingRepo,
		audit:             audit,
		images:            images,
		uow:               uow,
		recorder:          recorder,
		logger:            logger,
		protectedUsername: protectedUsername,
		now:               time.Now,
	}
}

// Stats resume usuários por papel e anúncios disponíveis
type Stats struct {
	TotalUsers         int64
	PendingVolunteers  int64
	VerifiedVolunteers int64
	Admins             int64
	RegularUsers       int64
	ActiveListings     int64
}

// ApproveVolunteer: pending_volunteer → verified_volunteer
func (s *AdminService) ApproveVolunteer(ctx context.Context, grant policy.AdminGrant, userID string) (*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	actor := grant.Actor()
	approvedAt := s.now().UTC()

	return s.transition(ctx, actor, userID, entities.AuditApproveVolunteer, domainerrors.ErrNotPendingVolunteer, repositories.RoleTransition{
		From:       []entities.Role{entities.RolePendingVolunteer},
		To:         entities.RoleVerifiedVolunteer,
		ApprovedBy: &actor.ID,
		ApprovedAt: &approvedAt,
	})
}

// RejectVolunteer: pending_volunteer → user, limpando a declaração
func (s *AdminService) RejectVolunteer(ctx context.Context, grant policy.AdminGrant, userID string) (*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	return s.transition(ctx, grant.Actor(), userID, entities.AuditRejectVolunteer, domainerrors.ErrNotPendingVolunteer, repositories.RoleTransition{
		From:                      []entities.Role{entities.RolePendingVolunteer},
		To:                        entities.RoleUser,
		ClearVolunteerDeclaration: true,
	})
}

// PromoteAdmin: qualquer papel diferente de admin → admin
func (s *AdminService) PromoteAdmin(ctx context.Context, grant policy.AdminGrant, userID string) (*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	return s.transition(ctx, grant.Actor(), userID, entities.AuditPromoteAdmin, domainerrors.ErrAlreadyAdmin, repositories.RoleTransition{
		From: []entities.Role{entities.RoleUser, entities.RolePendingVolunteer, entities.RoleVerifiedVolunteer},
		To:   entities.RoleAdmin,
	})
}

// DemoteAdmin: admin → verified_volunteer, nunca a si mesmo nem a conta protegida
func (s *AdminService) DemoteAdmin(ctx context.Context, grant policy.AdminGrant, userID string) (*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	actor := grant.Actor()
	if userID == actor.ID {
		return nil, domainerrors.ErrSelfAction
	}

	target, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.IsProtected(s.protectedUsername) {
		return nil, domainerrors.ErrProtectedAccount
	}
	if target.Role != entities.RoleAdmin {
		return nil, domainerrors.ErrNotAdmin
	}

	return s.transition(ctx, actor, userID, entities.AuditDemoteAdmin, domainerrors.ErrNotAdmin, repositories.RoleTransition{
		From:            []entities.Role{entities.RoleAdmin},
		To:              entities.RoleVerifiedVolunteer,
		ExcludeUsername: s.protectedUsername,
	})
}

// DeleteUser remove o usuário e seus anúncios numa única transação.
// O histórico de auditoria é preservado com as referências anuladas.
func (s *AdminService) DeleteUser(ctx context.Context, grant policy.AdminGrant, userID string) (*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	actor := grant.Actor()
	if userID == actor.ID {
		return nil, domainerrors.ErrSelfAction
	}

	target, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.IsProtected(s.protectedUsername) {
		return nil, domainerrors.ErrProtectedAccount
	}

	var images []string
	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		listings, err := s.listingRepo.ListByOwner(txCtx, target.ID)
		if err != nil {
			return err
		}
		for _, listing := range listings {
			images = append(images, listing.Images()...)
		}

		if _, err := s.listingRepo.DeleteByOwner(txCtx, target.ID); err != nil {
			return err
		}
		if err := s.audit.detach(txCtx, target.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(txCtx, target.ID)
	})
	if err != nil {
		return nil, err
	}

	for _, ref := range images {
		if s.images == nil {
			break
		}
		if err := s.images.Delete(ctx, ref); err != nil {
			s.logger.Warn("failed to delete image of removed user", "ref", ref, "error", err)
		}
	}

	s.record(ctx, actor, entities.AuditDeleteUser, nil, map[string]any{
		"deleted_user_id":   target.ID,
		"deleted_user_name": target.FullName,
	})

	s.logger.Info("user deleted", "user_id", target.ID, "admin_id", actor.ID)
	return target, nil
}

// Stats conta usuários por papel e anúncios disponíveis
func (s *AdminService) Stats(ctx context.Context, grant policy.AdminGrant) (*Stats, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.listingRepo.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		PendingVolunteers:  counts[entities.RolePendingVolunteer],
		VerifiedVolunteers: counts[entities.RoleVerifiedVolunteer],
		Admins:             counts[entities.RoleAdmin],
		RegularUsers:       counts[entities.RoleUser],
		ActiveListings:     active,
	}
	for _, count := range counts {
		stats.TotalUsers += count
	}
	return stats, nil
}

// PendingVolunteers lista cadastros aguardando aprovação
func (s *AdminService) PendingVolunteers(ctx context.Context, grant policy.AdminGrant) ([]*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	role := entities.RolePendingVolunteer
	return s.userRepo.List(ctx, repositories.UserFilters{Role: &role})
}

// ListUsers lista usuários com filtro opcional de papel e busca
func (s *AdminService) ListUsers(ctx context.Context, grant policy.AdminGrant, filters repositories.UserFilters) ([]*entities.User, error) {
	if !grant.Valid() {
		return nil, domainerrors.ErrForbidden
	}

	filters.Search = strings.TrimSpace(filters.Search)
	return s.userRepo.List(ctx, filters)
}

// AuditLog lista as ações administrativas mais recentes
func (s *AdminService) AuditLog(ctx context.Context, grant policy.AdminGrant, limit int) ([]*entities.AuditLogEntry, error) {
	return s.audit.Recent(ctx, grant, limit)
}

// transition aplica a atualização condicional e registra a auditoria.
// Sem linha afetada, relê o alvo para distinguir NotFound do estado inválido.
func (s *AdminService) transition(
	ctx context.Context,
	actor *entities.User,
	userID string,
	action entities.AuditAction,
	invalidState error,
	change repositories.RoleTransition,
) (*entities.User, error) {
	before, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.TransitionRole(ctx, userID, change)
	if err != nil {
		return nil, err
	}

	if updated == nil {
		current, err := s.find(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.IsProtected(change.ExcludeUsername) {
			return nil, domainerrors.ErrProtectedAccount
		}
		return nil, invalidState
	}

	s.record(ctx, actor, action, updated, map[string]any{
		"old_role": string(before.Role),
		"new_role": string(updated.Role),
	})

	s.logger.Info("user role changed",
		"user_id", updated.ID,
		"admin_id", actor.ID,
		"action", action,
		"new_role", updated.Role,
	)
	return updated, nil
}

func (s *AdminService) record(ctx context.Context, actor *entities.User, action entities.AuditAction, target *entities.User, details map[string]any) {
	entry := &entities.AuditLogEntry{
		AdminID: &actor.ID,
		Action:  action,
		Details: details,
		Admin:   &entities.UserSummary{ID: actor.ID, FullName: actor.FullName, Email: actor.Email},
	}
	if target != nil {
		entry.TargetUserID = &target.ID
		entry.TargetUser = &entities.UserSummary{ID: target.ID, FullName: target.FullName, Email: target.Email}
	}

	s.audit.Record(ctx, entry)
	s.recorder.AdminAction(action)
}

func (s *AdminService) find(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}
