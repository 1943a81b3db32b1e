package model

import (
	"time"

	"gorm.io/gorm"
)

type PromptOutcome string

const (
	OutcomeWorked  PromptOutcome = "WORKED"
	OutcomePartial PromptOutcome = "PARTIAL"
	OutcomeFailed  PromptOutcome = "FAILED"
)

func (o PromptOutcome) Valid() bool {
	switch o {
	case OutcomeWorked, OutcomePartial, OutcomeFailed:
		return true
	}
	return false
}

type Prompt struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string         `gorm:"size:36;not null;index" json:"projectId"`
	TaskID    *string        `gorm:"size:36;index" json:"taskId"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"not null" json:"content"`
	Outcome   *PromptOutcome `json:"outcome"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`

	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
