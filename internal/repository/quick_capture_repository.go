package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibepm/internal/capture"
	"vibepm/internal/model"
)

type QuickCaptureRepository struct {
	db *gorm.DB
}

func NewQuickCaptureRepository(db *gorm.DB) *QuickCaptureRepository {
	return &QuickCaptureRepository{db: db}
}

// List returns live captures, or only soft-deleted ones when deleted is true.
func (r *QuickCaptureRepository) List(ctx context.Context, deleted bool) ([]model.QuickCapture, error) {
	captures := []model.QuickCapture{}
	q := r.db.WithContext(ctx)
	if deleted {
		q = q.Where("deleted_at IS NOT NULL").Order("deleted_at DESC")
	} else {
		q = q.Where("deleted_at IS NULL").Order("created_at DESC")
	}
	if err := q.Find(&captures).Error; err != nil {
		return nil, err
	}
	return captures, nil
}

func (r *QuickCaptureRepository) Create(ctx context.Context, c *model.QuickCapture) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// GetByID retrieves a capture whether or not it is soft-deleted
func (r *QuickCaptureRepository) GetByID(ctx context.Context, id string) (*model.QuickCapture, error) {
	var c model.QuickCapture
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetWithProject retrieves a capture and the project it was promoted into
func (r *QuickCaptureRepository) GetWithProject(ctx context.Context, id string) (*model.QuickCapture, error) {
	var c model.QuickCapture
	err := r.db.WithContext(ctx).
		Preload("Project", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "slug") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *QuickCaptureRepository) Update(ctx context.Context, c *model.QuickCapture) error {
	result := r.db.WithContext(ctx).Model(&model.QuickCapture{}).
		Where("id = ?", c.ID).
		Select("*").Omit(clause.Associations).
		Updates(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaptureNotFound
	}
	return nil
}

func (r *QuickCaptureRepository) SoftDelete(ctx context.Context, id string) error {
	return r.setDeletedAt(ctx, id, time.Now())
}

func (r *QuickCaptureRepository) Restore(ctx context.Context, id string) error {
	return r.setDeletedAt(ctx, id, nil)
}

func (r *QuickCaptureRepository) setDeletedAt(ctx context.Context, id string, value any) error {
	result := r.db.WithContext(ctx).Model(&model.QuickCapture{}).
		Where("id = ?", id).
		Update("deleted_at", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaptureNotFound
	}
	return nil
}

// Delete removes a capture permanently
func (r *QuickCaptureRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.QuickCapture{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaptureNotFound
	}
	return nil
}

// SplitLegacyAnalyses moves analyses stored inline behind the marker into
// the analysis column and returns how many rows changed.
func (r *QuickCaptureRepository) SplitLegacyAnalyses(ctx context.Context) (int, error) {
	var legacy []model.QuickCapture
	err := r.db.WithContext(ctx).
		Where("content LIKE ?", "%"+capture.Marker+"%").
		Find(&legacy).Error
	if err != nil {
		return 0, err
	}

	changed := 0
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range legacy {
			if !capture.HasAnalysis(c.Content) {
				continue
			}
			parsed := capture.ParseAnalysis(c.Content)
			err := tx.Model(&model.QuickCapture{}).
				Where("id = ?", c.ID).
				Updates(map[string]any{
					"content":  parsed.RawIdea,
					"analysis": parsed.Analysis,
				}).Error
			if err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
