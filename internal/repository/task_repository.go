package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// lockProject takes a row lock on the project so order assignment is serialized per project.
func lockProject(tx *gorm.DB, projectID string) error {
	var project model.Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", projectID).
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// Create appends the task at the end of its project and records the creation activity
// in the same transaction. A nil activity is skipped.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, activity *model.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, task.ProjectID); err != nil {
			return err
		}

		var last model.Task
		result := tx.Select("position").
			Where("project_id = ?", task.ProjectID).
			Order("position DESC").
			Limit(1).
			Find(&last)
		if result.Error != nil {
			return result.Error
		}
		task.Order = 0
		if result.RowsAffected > 0 {
			task.Order = last.Order + 1
		}

		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		if activity == nil {
			return nil
		}
		activity.TaskID = &task.ID
		return tx.Create(activity).Error
	})
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetDetail retrieves a task with its prompts and ordered steps
func (r *TaskRepository) GetDetail(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Prompts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByProject retrieves all tasks of a project in board order
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("position").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update saves the task and, when given, a status-change activity atomically
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, activity *model.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ?", task.ID).
			Select("*").Omit(clause.Associations).
			Updates(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if activity == nil {
			return nil
		}
		return tx.Create(activity).Error
	})
}

// Delete removes a task by its ID; steps cascade, prompts keep a null task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
