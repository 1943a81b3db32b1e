package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/model"
)

type StepRepository struct {
	db *gorm.DB
}

func NewStepRepository(db *gorm.DB) *StepRepository {
	return &StepRepository{db: db}
}

// Create appends the step after the task's existing steps. The task row is
// locked for the duration so concurrent creates get distinct orders.
func (r *StepRepository) Create(ctx context.Context, step *model.Step) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", step.TaskID).
			Take(&task).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var last model.Step
		result := tx.Select("position").
			Where("task_id = ?", step.TaskID).
			Order("position DESC").
			Limit(1).
			Find(&last)
		if result.Error != nil {
			return result.Error
		}
		step.Order = 0
		if result.RowsAffected > 0 {
			step.Order = last.Order + 1
		}
		step.Completed = false
		return tx.Create(step).Error
	})
}

func (r *StepRepository) GetByID(ctx context.Context, id string) (*model.Step, error) {
	var step model.Step
	if err := r.db.WithContext(ctx).First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}
	return &step, nil
}

func (r *StepRepository) Update(ctx context.Context, step *model.Step) error {
	result := r.db.WithContext(ctx).Model(&model.Step{}).
		Where("id = ?", step.ID).
		Select("*").
		Updates(step)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStepNotFound
	}
	return nil
}

func (r *StepRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Step{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStepNotFound
	}
	return nil
}
