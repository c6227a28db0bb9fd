package dto

// ReportItemDTO — строка отчета по заявкам для JSON-выдачи.
type ReportItemDTO struct {
	RequestID      uint64  `json:"request_id"`
	Subject        string  `json:"subject"`
	Type           string  `json:"type"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	EquipmentName  string  `json:"equipment_name"`
	SerialNumber   string  `json:"serial_number"`
	TeamName       string  `json:"team_name"`
	TechnicianName string  `json:"technician_name,omitempty"`
	CreatedAt      string  `json:"created_at"`
	ScheduledDate  string  `json:"scheduled_date,omitempty"`
	ClosedAt       string  `json:"closed_at,omitempty"`
	TotalHours     float64 `json:"total_hours"`
}
