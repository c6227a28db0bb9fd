package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type MaintenanceTeam struct {
	ID      uint64      `json:"id"`
	Name    string      `json:"name"`
	Company null.String `json:"company"`

	types.BaseEntity
}

// TeamMember — связка (team_id, user_id), уникальна на пару.
// Роль на связке не хранится: глобальная роль лежит на User.
type TeamMember struct {
	ID     uint64 `json:"id"`
	TeamID uint64 `json:"team_id"`
	UserID uint64 `json:"user_id"`

	types.BaseEntity
}
