package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ReportFilter — параметры выгрузки отчета по заявкам.
type ReportFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	TeamIDs  []uint64
	Statuses []string
	Types    []string
	Page     int
	PerPage  int
}

// ReportItem — строка отчета: заявка вместе с оборудованием, командой
// и сводкой из журнала.
type ReportItem struct {
	RequestID      uint64
	Subject        string
	Type           string
	Priority       string
	Status         string
	EquipmentName  string
	SerialNumber   string
	TeamName       string
	TechnicianName null.String
	CreatedAt      time.Time
	ScheduledDate  null.Time
	ClosedAt       null.Time
	TotalHours     null.Float64
}
