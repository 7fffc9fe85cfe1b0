package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// ListingRepository implementa repositories.ListingRepository
type ListingRepository struct {
	db *gorm.DB
}

var _ repositories.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository cria um novo ListingRepository
func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// preloadOwner carrega somente as colunas públicas do dono
func preloadOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("Owner", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "full_name", "email", "phone", "merhav")
	})
}

func (r *ListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	model := r.toModel(listing)

	if err := dbFromContext(ctx, r.db).Omit("Owner").Create(model).Error; err != nil {
		return err
	}

	listing.CreatedAt = model.CreatedAt
	listing.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*entities.Listing, error) {
	var model ListingModel

	if err := preloadOwner(dbFromContext(ctx, r.db)).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model), nil
}

func (r *ListingRepository) List(ctx context.Context, filters repositories.ListingFilters) ([]*entities.Listing, error) {
	var models []*ListingModel

	query := preloadOwner(dbFromContext(ctx, r.db)).Model(&ListingModel{})

	if filters.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	if filters.ExcludeVolunteerOnly {
		query = query.Where("volunteer_only = ?", false)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", string(*filters.Category))
	}
	if filters.Merhav != nil {
		query = query.Where("merhav = ?", string(*filters.Merhav))
	}
	if filters.TransactionType != nil {
		query = query.Where("transaction_type = ?", string(*filters.TransactionType))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models), nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Listing, error) {
	var models []*ListingModel

	err := dbFromContext(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.toEntities(models), nil
}

// Update grava os campos editáveis; views e dono nunca são sobrescritos aqui
func (r *ListingRepository) Update(ctx context.Context, listing *entities.Listing) error {
	updates := map[string]interface{}{
		"title":            listing.Title,
		"description":      listing.Description,
		"category":         string(listing.Category),
		"transaction_type": string(listing.TransactionType),
		"size":             listing.Size,
		"merhav":           string(listing.Merhav),
		"image1":           listing.Image1,
		"image2":           listing.Image2,
		"volunteer_only":   listing.VolunteerOnly,
		"is_available":     listing.IsAvailable,
		"updated_at":       time.Now().UTC(),
	}

	result := dbFromContext(ctx, r.db).Model(&ListingModel{}).Where("id = ?", listing.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	result := dbFromContext(ctx, r.db).Where("id = ?", id).Delete(&ListingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	result := dbFromContext(ctx, r.db).Where("owner_id = ?", ownerID).Delete(&ListingModel{})
	return result.RowsAffected, result.Error
}

// IncrementViews soma 1 no próprio banco (views = views + 1)
func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	result := dbFromContext(ctx, r.db).
		Model(&ListingModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) CountAvailable(ctx context.Context) (int64, error) {
	var total int64
	err := dbFromContext(ctx, r.db).Model(&ListingModel{}).Where("is_available = ?", true).Count(&total).Error
	return total, err
}

// Conversores
func (r *ListingRepository) toModel(listing *entities.Listing) *ListingModel {
	return &ListingModel{
		ID:              listing.ID,
		OwnerID:         listing.OwnerID,
		Title:           listing.Title,
		Description:     listing.Description,
		Category:        string(listing.Category),
		TransactionType: string(listing.TransactionType),
		Size:            listing.Size,
		Merhav:          string(listing.Merhav),
		Image1:          listing.Image1,
		Image2:          listing.Image2,
		VolunteerOnly:   listing.VolunteerOnly,
		IsAvailable:     listing.IsAvailable,
		Views:           listing.Views,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
	}
}

func (r *ListingRepository) toEntity(model *ListingModel) *entities.Listing {
	return &entities.Listing{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		Title:           model.Title,
		Description:     model.Description,
		Category:        entities.Category(model.Category),
		TransactionType: entities.TransactionType(model.TransactionType),
		Size:            model.Size,
		Merhav:          entities.Merhav(model.Merhav),
		Image1:          model.Image1,
		Image2:          model.Image2,
		VolunteerOnly:   model.VolunteerOnly,
		IsAvailable:     model.IsAvailable,
		Views:           model.Views,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		Owner:           summaryFromModel(model.Owner),
	}
}

func (r *ListingRepository) toEntities(models []*ListingModel) []*entities.Listing {
	listings := make([]*entities.Listing, 0, len(models))
	for _, model := range models {
		listings = append(listings, r.toEntity(model))
	}
	return listings
}
