package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns live projects, or only soft-deleted ones when deleted is true.
func (r *ProjectRepository) List(ctx context.Context, deleted bool) ([]model.Project, error) {
	var projects []model.Project
	q := r.db.WithContext(ctx)
	if deleted {
		q = q.Where("deleted_at IS NOT NULL").Order("deleted_at DESC")
	} else {
		q = q.Where("deleted_at IS NULL").Order("updated_at DESC")
	}
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	taskCounts, err := r.countByProject(ctx, "tasks", ids)
	if err != nil {
		return nil, err
	}
	promptCounts, err := r.countByProject(ctx, "prompts", ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Count = &model.ProjectCounts{
			Tasks:   taskCounts[projects[i].ID],
			Prompts: promptCounts[projects[i].ID],
		}
	}
	return projects, nil
}

type projectCount struct {
	ProjectID string
	Total     int64
}

func (r *ProjectRepository) countByProject(ctx context.Context, table string, ids []string) (map[string]int64, error) {
	var rows []projectCount
	err := r.db.WithContext(ctx).Table(table).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row.Total
	}
	return counts, nil
}

// GetBySlug retrieves a project by slug, including soft-deleted rows
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetDetail loads a project with everything the project page renders.
func (r *ProjectRepository) GetDetail(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Phases.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Where("phase_id IS NULL").Order("position ASC") }).
		Preload("Decisions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Prompts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("ContextDoc").
		Where("slug = ?", slug).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	counts := &model.ProjectCounts{}
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Task{}).Where("project_id = ?", project.ID).Count(&counts.Tasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Prompt{}).Where("project_id = ?", project.ID).Count(&counts.Prompts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Decision{}).Where("project_id = ?", project.ID).Count(&counts.Decisions).Error; err != nil {
		return nil, err
	}
	project.Count = counts
	return &project, nil
}

// SlugExists checks every project, deleted or not, since slugs stay reserved.
func (r *ProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Create inserts the project together with its initial context document
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, contextDoc string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		doc := &model.ContextDocument{
			ProjectID:     project.ID,
			Content:       contextDoc,
			LastGenerated: time.Now(),
		}
		return tx.Create(doc).Error
	})
}

// Update saves every column of the project
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", project.ID).
		Select("*").Omit(clause.Associations).
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// SoftDelete marks the project as deleted without removing it
func (r *ProjectRepository) SoftDelete(ctx context.Context, id string) error {
	return r.setDeletedAt(ctx, id, time.Now())
}

// Restore clears the soft-delete mark
func (r *ProjectRepository) Restore(ctx context.Context, id string) error {
	return r.setDeletedAt(ctx, id, nil)
}

func (r *ProjectRepository) setDeletedAt(ctx context.Context, id string, value any) error {
	result := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		Update("deleted_at", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes a project permanently; dependent rows cascade in the database
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
