package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/model"
)

type ContextRepository struct {
	db *gorm.DB
}

func NewContextRepository(db *gorm.DB) *ContextRepository {
	return &ContextRepository{db: db}
}

// Save replaces the project's context document, creating it when missing
func (r *ContextRepository) Save(ctx context.Context, projectID, content string) (*model.ContextDocument, error) {
	doc := &model.ContextDocument{
		ProjectID:     projectID,
		Content:       content,
		LastGenerated: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "last_generated"}),
	}).Create(doc).Error
	if err != nil {
		return nil, err
	}
	var saved model.ContextDocument
	if err := r.db.WithContext(ctx).First(&saved, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}
