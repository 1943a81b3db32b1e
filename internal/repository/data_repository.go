package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"vibepm/internal/model"
)

// Snapshot is every user-visible collection, as written by the export route.
type Snapshot struct {
	Projects      []model.Project      `json:"projects"`
	Tasks         []model.Task         `json:"tasks"`
	Prompts       []model.Prompt       `json:"prompts"`
	Phases        []model.Phase        `json:"phases"`
	Decisions     []model.Decision     `json:"decisions"`
	QuickCaptures []model.QuickCapture `json:"quickCaptures"`
	Activities    []model.Activity     `json:"activities"`
	Settings      []model.AppSetting   `json:"settings"`
}

// PurgeResult counts the rows removed by PurgeDeleted.
type PurgeResult struct {
	Projects int64 `json:"projects"`
	Captures int64 `json:"captures"`
}

// clearOrder lists tables children first.
var clearOrder = []string{
	"activities",
	"prompts",
	"steps",
	"tasks",
	"phases",
	"decisions",
	"context_documents",
	"quick_captures",
	"projects",
}

type DataRepository struct {
	db *gorm.DB
}

func NewDataRepository(db *gorm.DB) *DataRepository {
	return &DataRepository{db: db}
}

// Export reads every collection concurrently.
func (r *DataRepository) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Projects:      []model.Project{},
		Tasks:         []model.Task{},
		Prompts:       []model.Prompt{},
		Phases:        []model.Phase{},
		Decisions:     []model.Decision{},
		QuickCaptures: []model.QuickCapture{},
		Activities:    []model.Activity{},
		Settings:      []model.AppSetting{},
	}

	g, gctx := errgroup.WithContext(ctx)
	load := func(name string, dest any) {
		g.Go(func() error {
			if err := r.db.WithContext(gctx).Find(dest).Error; err != nil {
				return fmt.Errorf("export %s: %w", name, err)
			}
			return nil
		})
	}
	load("projects", &snap.Projects)
	load("tasks", &snap.Tasks)
	load("prompts", &snap.Prompts)
	load("phases", &snap.Phases)
	load("decisions", &snap.Decisions)
	load("quick captures", &snap.QuickCaptures)
	load("activities", &snap.Activities)
	load("settings", &snap.Settings)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// ClearAll deletes all user data in one transaction. Settings are kept.
func (r *DataRepository) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range clearOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// PurgeDeleted hard-deletes projects and captures soft-deleted before the cutoff.
func (r *DataRepository) PurgeDeleted(ctx context.Context, before time.Time) (*PurgeResult, error) {
	res := &PurgeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		captures := tx.Where("deleted_at IS NOT NULL AND deleted_at < ?", before).Delete(&model.QuickCapture{})
		if captures.Error != nil {
			return captures.Error
		}
		res.Captures = captures.RowsAffected

		projects := tx.Where("deleted_at IS NOT NULL AND deleted_at < ?", before).Delete(&model.Project{})
		if projects.Error != nil {
			return projects.Error
		}
		res.Projects = projects.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
