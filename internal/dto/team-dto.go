package dto

import "time"

type CreateTeamDTO struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
}

type UpdateTeamDTO struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

type AddMemberDTO struct {
	UserID uint64 `json:"userId" validate:"required"`
}

type TeamDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ShortTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
