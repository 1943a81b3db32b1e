package handler

import (
	"context"
	"time"

	"vibepm/internal/model"
	"vibepm/internal/repository"
	"vibepm/internal/settings"
)

// The interfaces below are satisfied by the gorm repositories and mocked in
// tests.

type ProjectStore interface {
	List(ctx context.Context, deleted bool) ([]model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetDetail(ctx context.Context, slug string) (*model.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, project *model.Project, contextDoc string) error
	Update(ctx context.Context, project *model.Project) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task, activity *model.Activity) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetDetail(ctx context.Context, id string) (*model.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task, activity *model.Activity) error
	Delete(ctx context.Context, id string) error
}

type StepStore interface {
	Create(ctx context.Context, step *model.Step) error
	GetByID(ctx context.Context, id string) (*model.Step, error)
	Update(ctx context.Context, step *model.Step) error
	Delete(ctx context.Context, id string) error
}

type PromptStore interface {
	Create(ctx context.Context, prompt *model.Prompt) error
	CreateForTask(ctx context.Context, prompt *model.Prompt, activity *model.Activity) (*model.Prompt, bool, error)
	GetByID(ctx context.Context, id string) (*model.Prompt, error)
	FindByTask(ctx context.Context, taskID string) (*model.Prompt, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Prompt, error)
	Update(ctx context.Context, prompt *model.Prompt) error
	Delete(ctx context.Context, id string) error
}

type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
	ListByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Activity, int64, error)
}

type CaptureStore interface {
	List(ctx context.Context, deleted bool) ([]model.QuickCapture, error)
	Create(ctx context.Context, c *model.QuickCapture) error
	GetByID(ctx context.Context, id string) (*model.QuickCapture, error)
	GetWithProject(ctx context.Context, id string) (*model.QuickCapture, error)
	Update(ctx context.Context, c *model.QuickCapture) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SettingStore interface {
	List(ctx context.Context) ([]model.AppSetting, error)
	UpsertMany(ctx context.Context, values map[string]string) error
}

type ContextStore interface {
	Save(ctx context.Context, projectID, content string) (*model.ContextDocument, error)
}

type DataStore interface {
	Export(ctx context.Context) (*repository.Snapshot, error)
	ClearAll(ctx context.Context) error
	PurgeDeleted(ctx context.Context, before time.Time) (*repository.PurgeResult, error)
}

// SettingsSource is the subset of settings.Resolver the handlers read.
type SettingsSource interface {
	GetAIConfig(ctx context.Context) *settings.AIConfig
	Load(ctx context.Context) settings.AppSettings
}

var (
	_ ProjectStore   = (*repository.ProjectRepository)(nil)
	_ TaskStore      = (*repository.TaskRepository)(nil)
	_ StepStore      = (*repository.StepRepository)(nil)
	_ PromptStore    = (*repository.PromptRepository)(nil)
	_ ActivityStore  = (*repository.ActivityRepository)(nil)
	_ CaptureStore   = (*repository.QuickCaptureRepository)(nil)
	_ SettingStore   = (*repository.SettingRepository)(nil)
	_ ContextStore   = (*repository.ContextRepository)(nil)
	_ DataStore      = (*repository.DataRepository)(nil)
	_ SettingsSource = (*settings.Resolver)(nil)
)
