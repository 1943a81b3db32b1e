package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

func TestPromptRepository_CreateForTask_ReturnsExisting(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPromptRepository(gormDB)
	taskID := "t1"
	prompt := &model.Prompt{ProjectID: "p1", TaskID: &taskID, Title: "Prompt for: Login", Content: "..."}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "tasks" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))
	mock.ExpectQuery(`SELECT \* FROM "prompts" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "task_id", "title", "content"}).
			AddRow("pr-old", "p1", "t1", "Prompt for: Login", "earlier"))
	mock.ExpectCommit()

	// Act
	got, created, err := repo.CreateForTask(context.Background(), prompt, &model.Activity{ProjectID: "p1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "pr-old", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromptRepository_CreateForTask_Inserts(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPromptRepository(gormDB)
	taskID := "t1"
	prompt := &model.Prompt{ProjectID: "p1", TaskID: &taskID, Title: "Prompt for: Login", Content: "do it"}
	activity := &model.Activity{ProjectID: "p1", Type: model.ActivityPromptGenerated, Title: `Generated prompt for "Login"`}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))
	mock.ExpectQuery(`SELECT \* FROM "prompts" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "prompts"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "activities"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Act
	got, created, err := repo.CreateForTask(context.Background(), prompt, activity)

	// Assert
	require.NoError(t, err)
	assert.True(t, created)
	assert.Same(t, prompt, got)
	require.NotNil(t, activity.PromptID)
	assert.Equal(t, prompt.ID, *activity.PromptID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromptRepository_FindByTask_None(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPromptRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "prompts" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	prompt, err := repo.FindByTask(context.Background(), "t1")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, prompt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
