package entities

import (
	"strings"

	"maintenance-system/pkg/types"
)

// Role — глобальная роль пользователя. Неизменяема после регистрации.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
	RoleUser       Role = "USER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleTechnician:
		return RoleTechnician, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

type User struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	types.BaseEntity
}
