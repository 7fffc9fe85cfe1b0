package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// AuditRepository implementa repositories.AuditRepository
type AuditRepository struct {
	db *gorm.DB
}

var _ repositories.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository cria um novo AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *entities.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	model := &AuditLogModel{
		ID:           entry.ID,
		AdminID:      entry.AdminID,
		Action:       string(entry.Action),
		TargetUserID: entry.TargetUserID,
		Details:      entry.Details,
		CreatedAt:    entry.CreatedAt,
	}

	if err := dbFromContext(ctx, r.db).Omit("Admin", "TargetUser").Create(model).Error; err != nil {
		return err
	}

	entry.CreatedAt = model.CreatedAt
	return nil
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*entities.AuditLogEntry, error) {
	var models []*AuditLogModel

	summary := func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "full_name", "email")
	}

	err := dbFromContext(ctx, r.db).
		Preload("Admin", summary).
		Preload("TargetUser", summary).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.AuditLogEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, &entities.AuditLogEntry{
			ID:           model.ID,
			AdminID:      model.AdminID,
			Action:       entities.AuditAction(model.Action),
			TargetUserID: model.TargetUserID,
			Details:      model.Details,
			CreatedAt:    model.CreatedAt,
			Admin:        summaryFromModel(model.Admin),
			TargetUser:   summaryFromModel(model.TargetUser),
		})
	}
	return entries, nil
}

// DetachUser preserva o histórico anulando as referências ao usuário
func (r *AuditRepository) DetachUser(ctx context.Context, userID string) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Model(&AuditLogModel{}).Where("target_user_id = ?", userID).Update("target_user_id", nil).Error; err != nil {
		return err
	}

	return db.Model(&AuditLogModel{}).Where("admin_id = ?", userID).Update("admin_id", nil).Error
}
