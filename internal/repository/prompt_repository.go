package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/model"
)

type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Create adds a new prompt to the database
func (r *PromptRepository) Create(ctx context.Context, prompt *model.Prompt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(prompt).Error
}

// CreateForTask inserts a generated prompt and its activity unless the task
// already has a prompt, in which case the existing one is returned and
// created is false. The task row is locked while checking.
func (r *PromptRepository) CreateForTask(ctx context.Context, prompt *model.Prompt, activity *model.Activity) (*model.Prompt, bool, error) {
	if prompt.TaskID == nil {
		return nil, false, ErrTaskNotFound
	}
	var existing *model.Prompt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", *prompt.TaskID).
			Take(&task).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var found []model.Prompt
		if err := tx.Where("task_id = ?", *prompt.TaskID).Order("created_at").Limit(1).Find(&found).Error; err != nil {
			return err
		}
		if len(found) > 0 {
			existing = &found[0]
			return nil
		}

		if err := tx.Omit(clause.Associations).Create(prompt).Error; err != nil {
			return err
		}
		if activity == nil {
			return nil
		}
		activity.PromptID = &prompt.ID
		return tx.Create(activity).Error
	})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	return prompt, true, nil
}

// GetByID retrieves a prompt with its task
func (r *PromptRepository) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	var prompt model.Prompt
	if err := r.db.WithContext(ctx).Preload("Task").First(&prompt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	return &prompt, nil
}

// FindByTask returns the first prompt of a task, or nil when it has none
func (r *PromptRepository) FindByTask(ctx context.Context, taskID string) (*model.Prompt, error) {
	var prompts []model.Prompt
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at").Limit(1).Find(&prompts).Error; err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, nil
	}
	return &prompts[0], nil
}

// ListByProject retrieves a project's prompts, newest first
func (r *PromptRepository) ListByProject(ctx context.Context, projectID string) ([]model.Prompt, error) {
	var prompts []model.Prompt
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&prompts)
	if result.Error != nil {
		return nil, result.Error
	}
	return prompts, nil
}

func (r *PromptRepository) Update(ctx context.Context, prompt *model.Prompt) error {
	result := r.db.WithContext(ctx).Model(&model.Prompt{}).
		Where("id = ?", prompt.ID).
		Select("*").Omit(clause.Associations).
		Updates(prompt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromptNotFound
	}
	return nil
}

func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Prompt{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromptNotFound
	}
	return nil
}
