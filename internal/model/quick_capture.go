package model

import (
	"time"

	"gorm.io/gorm"
)

// QuickCapture is a freeform idea. Analysis holds the AI write-up that older
// rows kept inside Content behind a text marker.
type QuickCapture struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Content   string     `gorm:"not null" json:"content"`
	Analysis  *string    `json:"analysis"`
	ProjectID *string    `gorm:"size:36;index" json:"projectId"`
	DeletedAt *time.Time `gorm:"index" json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (q *QuickCapture) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}
