package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

func TestUpdate_MissingRowReturnsNotFound(t *testing.T) {
	cases := []struct {
		name   string
		table  string
		update func(db *gorm.DB) error
		want   error
	}{
		{
			name:  "project",
			table: "projects",
			update: func(db *gorm.DB) error {
				return repository.NewProjectRepository(db).Update(context.Background(),
					&model.Project{ID: "gone", Slug: "gone", Name: "Gone", Status: model.ProjectActive})
			},
			want: repository.ErrProjectNotFound,
		},
		{
			name:  "prompt",
			table: "prompts",
			update: func(db *gorm.DB) error {
				return repository.NewPromptRepository(db).Update(context.Background(),
					&model.Prompt{ID: "gone", ProjectID: "p1", Title: "t", Content: "c"})
			},
			want: repository.ErrPromptNotFound,
		},
		{
			name:  "step",
			table: "steps",
			update: func(db *gorm.DB) error {
				return repository.NewStepRepository(db).Update(context.Background(),
					&model.Step{ID: "gone", TaskID: "t1", Title: "s"})
			},
			want: repository.ErrStepNotFound,
		},
		{
			name:  "capture",
			table: "quick_captures",
			update: func(db *gorm.DB) error {
				return repository.NewQuickCaptureRepository(db).Update(context.Background(),
					&model.QuickCapture{ID: "gone", Content: "idea"})
			},
			want: repository.ErrCaptureNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			gormDB, mock := setupMockDB(t)
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "` + tc.table + `" SET .* WHERE id = `).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectCommit()

			// Act
			err := tc.update(gormDB)

			// Assert
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
