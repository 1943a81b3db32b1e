package model

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskBlocked, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type TaskComplexity string

const (
	ComplexitySmall      TaskComplexity = "SMALL"
	ComplexityMedium     TaskComplexity = "MEDIUM"
	ComplexityLarge      TaskComplexity = "LARGE"
	ComplexityExtraLarge TaskComplexity = "EXTRA_LARGE"
)

func (c TaskComplexity) Valid() bool {
	switch c {
	case ComplexitySmall, ComplexityMedium, ComplexityLarge, ComplexityExtraLarge:
		return true
	}
	return false
}

type Task struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string         `gorm:"size:36;not null;index" json:"projectId"`
	PhaseID     *string        `gorm:"size:36;index" json:"phaseId"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `json:"description"`
	Complexity  TaskComplexity `gorm:"not null" json:"complexity"`
	Status      TaskStatus     `gorm:"not null" json:"status"`
	Order       int            `gorm:"column:position;not null" json:"order"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Prompts []Prompt `gorm:"foreignKey:TaskID" json:"prompts,omitempty"`
	Steps   []Step   `gorm:"foreignKey:TaskID" json:"steps,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
