package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name         string     `json:"name" validate:"required"`
	SerialNumber string     `json:"serialNumber" validate:"required"`
	CategoryID   uint64     `json:"categoryId" validate:"required"`
	TeamID       uint64     `json:"teamId" validate:"required"`
	TechnicianID *uint64    `json:"technicianId"`
	Department   string     `json:"department"`
	Location     string     `json:"location"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	WarrantyEnd  *time.Time `json:"warrantyEnd"`
}

type EquipmentDTO struct {
	ID           uint64        `json:"id"`
	Name         string        `json:"name"`
	SerialNumber string        `json:"serial_number"`
	Category     ShortCatalog  `json:"category"`
	Team         ShortTeamDTO  `json:"team"`
	Technician   *ShortUserDTO `json:"technician,omitempty"`
	Department   null.String   `json:"department"`
	Location     null.String   `json:"location"`
	PurchaseDate null.Time     `json:"purchase_date"`
	WarrantyEnd  null.Time     `json:"warranty_end"`
	IsScrapped   bool          `json:"is_scrapped"`
	ScrapDate    null.Time     `json:"scrap_date"`
}

// AutofillDTO — данные автоподстановки в форму заявки по оборудованию.
type AutofillDTO struct {
	TeamID       uint64      `json:"teamId"`
	TechnicianID null.Uint64 `json:"technicianId"`
	Category     string      `json:"category"`
}

type CreateCategoryDTO struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
}

type ShortCatalog struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
