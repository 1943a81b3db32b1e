package model

import (
	"time"

	"gorm.io/gorm"
)

type Decision struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;not null;index" json:"projectId"`
	Title     string    `gorm:"not null" json:"title"`
	Rationale *string   `json:"rationale"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
