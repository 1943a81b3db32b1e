package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is an append-only audit row attached to a project.
type Activity struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string         `gorm:"size:36;not null;index:idx_activities_project_created,priority:1" json:"projectId"`
	Type        string         `gorm:"not null" json:"type"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `json:"description"`
	TaskID      *string        `gorm:"size:36" json:"taskId"`
	PromptID    *string        `gorm:"size:36" json:"promptId"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"index:idx_activities_project_created,priority:2,sort:desc" json:"createdAt"`
}

// Well-known activity types.
const (
	ActivityTaskCreated       = "task_created"
	ActivityTaskStatusChanged = "task_status_changed"
	ActivityPromptGenerated   = "prompt_generated"
)

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
