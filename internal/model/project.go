package model

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectPaused    ProjectStatus = "PAUSED"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectPaused, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Slug          string        `gorm:"uniqueIndex;not null" json:"slug"`
	Name          string        `gorm:"not null" json:"name"`
	Problem       *string       `json:"problem"`
	MvpDefinition *string       `json:"mvpDefinition"`
	Status        ProjectStatus `gorm:"not null" json:"status"`
	DeletedAt     *time.Time    `gorm:"index" json:"deletedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Phases     []Phase          `gorm:"foreignKey:ProjectID" json:"phases,omitempty"`
	Tasks      []Task           `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Prompts    []Prompt         `gorm:"foreignKey:ProjectID" json:"prompts,omitempty"`
	Decisions  []Decision       `gorm:"foreignKey:ProjectID" json:"decisions,omitempty"`
	ContextDoc *ContextDocument `gorm:"foreignKey:ProjectID" json:"contextDoc,omitempty"`

	// Count is filled by listing queries, never persisted.
	Count *ProjectCounts `gorm:"-" json:"_count,omitempty"`
}

type ProjectCounts struct {
	Tasks     int64 `json:"tasks"`
	Prompts   int64 `json:"prompts"`
	Decisions int64 `json:"decisions"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
