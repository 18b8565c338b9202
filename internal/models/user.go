package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя на платформе.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleCompany    Role = "COMPANY"
	RoleUniversity Role = "UNIVERSITY"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid сообщает, известна ли роль системе.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleUniversity, RoleSuperAdmin:
		return true
	}

	return false
}

// Status — статус учётной записи.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// User — модель пользователя платформы.
//
// PasswordHash никогда не сериализуется наружу: транспорт отдаёт
// пользователя через PublicUser.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser — представление пользователя без учётных данных.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public возвращает представление пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
