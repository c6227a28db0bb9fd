package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

// MaintenanceRequest — заявка на обслуживание.
// TeamID копируется из оборудования при создании и после этого не
// пересчитывается, даже если команда оборудования сменилась.
type MaintenanceRequest struct {
	ID            uint64        `json:"id"`
	Subject       string        `json:"subject"`
	Description   null.String   `json:"description"`
	Type          RequestType   `json:"type"`
	Priority      Priority      `json:"priority"`
	Status        RequestStatus `json:"status"`
	EquipmentID   uint64        `json:"equipment_id"`
	TeamID        uint64        `json:"team_id"`
	TechnicianID  null.Uint64   `json:"technician_id"`
	ScheduledDate null.Time     `json:"scheduled_date"`

	types.BaseEntity
}
