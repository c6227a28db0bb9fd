package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// CreateRequestDTO — тело POST /api/requests.
// TeamID намеренно отсутствует: команда заявки всегда берётся из
// оборудования, значение из тела клиента игнорируется ещё на Bind-е.
type CreateRequestDTO struct {
	Subject       string     `json:"subject" validate:"required"`
	Type          string     `json:"type" validate:"required,request_type"`
	EquipmentID   uint64     `json:"equipmentId" validate:"required"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority" validate:"omitempty,request_priority"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64 `json:"technicianId" validate:"required"`
}

type ChangeStatusDTO struct {
	Status string `json:"status" validate:"required,request_status"`
}

// RequestDTO — обогащённое представление заявки для ответов API.
type RequestDTO struct {
	ID            uint64        `json:"id"`
	Subject       string        `json:"subject"`
	Description   null.String   `json:"description"`
	Type          string        `json:"type"`
	Priority      string        `json:"priority"`
	Status        string        `json:"status"`
	Equipment     ShortCatalog  `json:"equipment"`
	Team          ShortTeamDTO  `json:"team"`
	Technician    *ShortUserDTO `json:"technician,omitempty"`
	ScheduledDate null.Time     `json:"scheduled_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MaintenanceLogDTO — строка журнала жизненного цикла для истории заявки.
type MaintenanceLogDTO struct {
	ID            uint64       `json:"id"`
	RequestID     uint64       `json:"request_id"`
	Action        string       `json:"action"`
	FromStatus    null.String  `json:"from_status"`
	ToStatus      null.String  `json:"to_status"`
	PerformedBy   ShortUserDTO `json:"performed_by"`
	Notes         null.String  `json:"notes"`
	DurationHours null.Float64 `json:"duration_hours"`
	CreatedAt     time.Time    `json:"created_at"`
}
