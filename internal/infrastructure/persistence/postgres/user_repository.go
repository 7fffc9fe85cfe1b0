package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// UserRepository implementa repositories.UserAdminRepository.
// Quem recebe apenas repositories.UserRepository fica restrito ao acesso regular.
type UserRepository struct {
	db *gorm.DB
}

var _ repositories.UserAdminRepository = (*UserRepository)(nil)

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if !user.Role.IsValid() {
		return fmt.Errorf("refusing to persist role %q", user.Role)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	model := r.toModel(user)

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", repositories.ErrDuplicateKey, err)
		}
		return err
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update repositories.ProfileUpdate) (*entities.User, error) {
	if !update.IsEmpty() {
		updates := map[string]interface{}{}
		if update.FullName != nil {
			updates["full_name"] = *update.FullName
		}
		if update.Phone != nil {
			updates["phone"] = *update.Phone
		}
		if update.Merhav != nil {
			updates["merhav"] = string(*update.Merhav)
		}

		result := dbFromContext(ctx, r.db).Model(&UserModel{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, domainerrors.ErrUserNotFound
		}
	}

	return r.FindByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	query := dbFromContext(ctx, r.db).Model(&UserModel{})

	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"(LOWER(full_name) LIKE ? ESCAPE '\\' OR LOWER(phone) LIKE ? ESCAPE '\\' OR LOWER(username) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}

	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models), nil
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[entities.Role]int64, error) {
	var rows []struct {
		Role  string
		Total int64
	}

	err := dbFromContext(ctx, r.db).Model(&UserModel{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.Role]int64, len(entities.AllRoles))
	for _, role := range entities.AllRoles {
		counts[role] = 0
	}
	for _, row := range rows {
		counts[entities.Role(row.Role)] = row.Total
	}
	return counts, nil
}

// TransitionRole executa UPDATE ... WHERE id = ? AND role IN (?), fechando a
// corrida entre ler o papel, decidir e gravar.
func (r *UserRepository) TransitionRole(ctx context.Context, id string, transition repositories.RoleTransition) (*entities.User, error) {
	if !transition.To.IsValid() {
		return nil, fmt.Errorf("refusing to persist role %q", transition.To)
	}
	if len(transition.From) == 0 {
		return nil, errors.New("role transition requires at least one expected role")
	}

	from := make([]string, len(transition.From))
	for i, role := range transition.From {
		from[i] = string(role)
	}

	updates := map[string]interface{}{
		"role":       string(transition.To),
		"updated_at": time.Now().UTC(),
	}
	if transition.ApprovedAt != nil {
		updates["approved_at"] = *transition.ApprovedAt
	}
	if transition.ApprovedBy != nil {
		updates["approved_by"] = *transition.ApprovedBy
	}
	if transition.ClearVolunteerDeclaration {
		updates["volunteer_declaration"] = false
	}

	query := dbFromContext(ctx, r.db).Model(&UserModel{}).Where("id = ? AND role IN ?", id, from)
	if transition.ExcludeUsername != "" {
		query = query.Where("username <> ?", transition.ExcludeUsername)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, id)
}

// Delete remove o usuário definitivamente
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := dbFromContext(ctx, r.db).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var model UserModel

	if err := dbFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model), nil
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:                   user.ID,
		Username:             user.Username,
		Email:                strings.ToLower(user.Email),
		PasswordHash:         user.PasswordHash,
		FullName:             user.FullName,
		Phone:                user.Phone,
		Merhav:               string(user.Merhav),
		Role:                 string(user.Role),
		VolunteerDeclaration: user.VolunteerDeclaration,
		ApprovedAt:           user.ApprovedAt,
		ApprovedBy:           user.ApprovedBy,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) *entities.User {
	return &entities.User{
		ID:                   model.ID,
		Username:             model.Username,
		Email:                model.Email,
		PasswordHash:         model.PasswordHash,
		FullName:             model.FullName,
		Phone:                model.Phone,
		Merhav:               entities.Merhav(model.Merhav),
		Role:                 entities.Role(model.Role),
		VolunteerDeclaration: model.VolunteerDeclaration,
		ApprovedAt:           model.ApprovedAt,
		ApprovedBy:           model.ApprovedBy,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func (r *UserRepository) toEntities(models []*UserModel) []*entities.User {
	users := make([]*entities.User, 0, len(models))
	for _, model := range models {
		users = append(users, r.toEntity(model))
	}
	return users
}

// likePattern monta um padrão LIKE de substring, sem diferenciar maiúsculas
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}

// summaryFromModel projeta um usuário carregado via Preload
func summaryFromModel(model *UserModel) *entities.UserSummary {
	if model == nil {
		return nil
	}
	return &entities.UserSummary{
		ID:       model.ID,
		FullName: model.FullName,
		Email:    model.Email,
		Phone:    model.Phone,
		Merhav:   entities.Merhav(model.Merhav),
	}
}
