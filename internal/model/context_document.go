package model

import (
	"time"

	"gorm.io/gorm"
)

type ContextDocument struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID     string    `gorm:"size:36;uniqueIndex;not null" json:"projectId"`
	Content       string    `gorm:"not null" json:"content"`
	LastGenerated time.Time `json:"lastGenerated"`
}

func (d *ContextDocument) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
