package model

import (
	"time"

	"gorm.io/gorm"
)

// Step is one checklist item of a task.
type Step struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"taskId"`
	Title     string    `gorm:"not null" json:"title"`
	Completed bool      `gorm:"not null" json:"completed"`
	Order     int       `gorm:"column:position;not null" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Step) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
