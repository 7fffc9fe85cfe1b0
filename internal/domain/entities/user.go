package entities

import (
	"errors"
	"strings"
	"time"
)

// User representa um usuário do sistema
type User struct {
	ID                   string
	Username             string
	Email                string
	PasswordHash         string
	FullName             string
	Phone                string
	Merhav               Merhav
	Role                 Role
	VolunteerDeclaration bool
	ApprovedAt           *time.Time
	ApprovedBy           *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsProtected verifica se o usuário é a conta de administrador principal
func (u *User) IsProtected(protectedUsername string) bool {
	return protectedUsername != "" && u.Username == protectedUsername
}

// InitialRole define o papel de um novo cadastro a partir da declaração de voluntário
func InitialRole(volunteerDeclaration bool) Role {
	if volunteerDeclaration {
		return RolePendingVolunteer
	}
	return RoleUser
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}

	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}

	if len(strings.TrimSpace(u.FullName)) < 2 {
		return errors.New("full name must be at least 2 characters")
	}

	if strings.TrimSpace(u.Phone) == "" {
		return errors.New("phone is required")
	}

	if !u.Merhav.IsValid() {
		return errors.New("invalid merhav")
	}

	if !u.Role.IsValid() {
		return errors.New("invalid role")
	}

	return nil
}

// UserSummary é a projeção pública de um usuário usada em outras leituras
type UserSummary struct {
	ID       string
	FullName string
	Email    string
	Phone    string
	Merhav   Merhav
}
