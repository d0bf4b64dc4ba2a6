package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`

	Versions []DocumentVersion `gorm:"foreignkey:DocumentID" json:"versions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DocumentVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	VersionNumber int       `gorm:"not null" json:"version_number"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	FileURL       string    `gorm:"type:text;not null" json:"file_url"`
	UploadedByID  uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	UploadedAt    time.Time `gorm:"not null" json:"uploaded_at"`
}
