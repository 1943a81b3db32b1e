package model

import (
	"time"

	"gorm.io/gorm"
)

type Phase struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;not null;index" json:"projectId"`
	Name      string    `gorm:"not null" json:"name"`
	Order     int       `gorm:"column:position;not null" json:"order"`
	CreatedAt time.Time `json:"createdAt"`

	Tasks []Task `gorm:"foreignKey:PhaseID" json:"tasks,omitempty"`
}

func (p *Phase) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
