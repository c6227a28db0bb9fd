package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// MaintenanceLog — запись журнала жизненного цикла заявки.
// Журнал append-only: записи не обновляются и не удаляются.
type MaintenanceLog struct {
	ID            uint64       `json:"id"`
	RequestID     uint64       `json:"request_id"`
	Action        LogAction    `json:"action"`
	FromStatus    null.String  `json:"from_status"`
	ToStatus      null.String  `json:"to_status"`
	PerformedByID uint64       `json:"performed_by_id"`
	Notes         null.String  `json:"notes"`
	DurationHours null.Float64 `json:"duration_hours"`
	CreatedAt     time.Time    `json:"created_at"`
}
