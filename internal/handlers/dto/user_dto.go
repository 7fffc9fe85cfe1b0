package dto

import (
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// RegisterRequest representa a requisição de cadastro.
// O papel nunca vem do cliente: é derivado de volunteer_declaration.
type RegisterRequest struct {
	Username             string `json:"username" binding:"required,username"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8,max=72,strong_password"`
	FullName             string `json:"full_name" binding:"required,min=2,max=100"`
	Phone                string `json:"phone" binding:"omitempty,il_phone"`
	Merhav               string `json:"merhav" binding:"required,merhav"`
	VolunteerDeclaration bool   `json:"volunteer_declaration"`
}

// ToInput converte a requisição na entrada do AuthService
func (r RegisterRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		Username:             r.Username,
		Email:                r.Email,
		Password:             r.Password,
		FullName:             r.FullName,
		Phone:                r.Phone,
		Merhav:               entities.Merhav(r.Merhav),
		VolunteerDeclaration: r.VolunteerDeclaration,
	}
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest contém somente os campos que o usuário pode alterar
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,il_phone"`
	Merhav   *string `json:"merhav" binding:"omitempty,merhav"`
}

// ToInput converte a requisição na entrada do AuthService
func (r UpdateProfileRequest) ToInput() services.ProfileInput {
	input := services.ProfileInput{FullName: r.FullName, Phone: r.Phone}
	if r.Merhav != nil {
		merhav := entities.Merhav(*r.Merhav)
		input.Merhav = &merhav
	}
	return input
}

// UserResponse representa um usuário; o hash de senha nunca é serializado
type UserResponse struct {
	ID                   string     `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	FullName             string     `json:"full_name"`
	Phone                string     `json:"phone"`
	Merhav               string     `json:"merhav"`
	Role                 string     `json:"role"`
	VolunteerDeclaration bool       `json:"volunteer_declaration"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ApprovedBy           *string    `json:"approved_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// SessionResponse carrega o token emitido
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthResponse é a resposta de cadastro e login
type AuthResponse struct {
	Message string          `json:"message"`
	User    UserResponse    `json:"user"`
	Profile UserResponse    `json:"profile"`
	Session SessionResponse `json:"session"`
}

// ProfileResponse é a resposta de /me e da edição de perfil
type ProfileResponse struct {
	Message string        `json:"message,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
	Profile UserResponse  `json:"profile"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:                   user.ID,
		Username:             user.Username,
		Email:                user.Email,
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

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// ToAuthResponse monta a resposta de cadastro/login
func ToAuthResponse(message string, result *services.AuthResult) AuthResponse {
	user := ToUserResponse(result.User)
	return AuthResponse{
		Message: message,
		User:    user,
		Profile: user,
		Session: SessionResponse{
			AccessToken: result.Token,
			ExpiresIn:   result.ExpiresIn(),
		},
	}
}
