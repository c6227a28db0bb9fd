package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type EquipmentCategory struct {
	ID      uint64      `json:"id"`
	Name    string      `json:"name"`
	Company null.String `json:"company"`

	types.BaseEntity
}

// Equipment привязано ровно к одной команде (TeamID — "домашняя" команда,
// которая подставляется в новые заявки) и опционально к технику по умолчанию.
type Equipment struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	SerialNumber string      `json:"serial_number"`
	CategoryID   uint64      `json:"category_id"`
	TeamID       uint64      `json:"team_id"`
	TechnicianID null.Uint64 `json:"technician_id"`
	Department   null.String `json:"department"`
	Location     null.String `json:"location"`
	PurchaseDate null.Time   `json:"purchase_date"`
	WarrantyEnd  null.Time   `json:"warranty_end"`

	// IsScrapped ставится один раз при переходе заявки в SCRAP
	// и последующими заявками не снимается.
	IsScrapped bool      `json:"is_scrapped"`
	ScrapDate  null.Time `json:"scrap_date"`

	types.BaseEntity
}
