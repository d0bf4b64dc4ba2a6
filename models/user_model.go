package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`

	FunctionalAreaID *uuid.UUID `json:"functional_area_id"`
	GroupNameID      *uuid.UUID `json:"group_name_id"`

	FunctionalArea *FunctionalArea `gorm:"foreignkey:FunctionalAreaID" json:"functional_area,omitempty"`
	GroupName      *GroupName      `gorm:"foreignkey:GroupNameID" json:"group_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsManager() bool {
	return u.Role == "manager"
}
