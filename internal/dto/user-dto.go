package dto

import "time"

type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ShortUserDTO — краткая карточка пользователя для вложенных ответов.
type ShortUserDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
