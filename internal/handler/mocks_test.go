package handler_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"vibepm/internal/ai"
	"vibepm/internal/model"
	"vibepm/internal/repository"
	"vibepm/internal/settings"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockProjectStore is a testify mock of ProjectStore.
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) List(ctx context.Context, deleted bool) ([]model.Project, error) {
	args := m.Called(ctx, deleted)
	projects, _ := args.Get(0).([]model.Project)
	return projects, args.Error(1)
}

func (m *MockProjectStore) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*model.Project)
	return p, args.Error(1)
}

func (m *MockProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Project)
	return p, args.Error(1)
}

func (m *MockProjectStore) GetDetail(ctx context.Context, slug string) (*model.Project, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*model.Project)
	return p, args.Error(1)
}

func (m *MockProjectStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectStore) Create(ctx context.Context, project *model.Project, contextDoc string) error {
	return m.Called(ctx, project, contextDoc).Error(0)
}

func (m *MockProjectStore) Update(ctx context.Context, project *model.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectStore) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectStore) Restore(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *model.Task, activity *model.Activity) error {
	return m.Called(ctx, task, activity).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Task)
	return t, args.Error(1)
}

func (m *MockTaskStore) GetDetail(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Task)
	return t, args.Error(1)
}

func (m *MockTaskStore) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *model.Task, activity *model.Activity) error {
	return m.Called(ctx, task, activity).Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockStepStore struct {
	mock.Mock
}

func (m *MockStepStore) Create(ctx context.Context, step *model.Step) error {
	return m.Called(ctx, step).Error(0)
}

func (m *MockStepStore) GetByID(ctx context.Context, id string) (*model.Step, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Step)
	return s, args.Error(1)
}

func (m *MockStepStore) Update(ctx context.Context, step *model.Step) error {
	return m.Called(ctx, step).Error(0)
}

func (m *MockStepStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPromptStore struct {
	mock.Mock
}

func (m *MockPromptStore) Create(ctx context.Context, prompt *model.Prompt) error {
	return m.Called(ctx, prompt).Error(0)
}

func (m *MockPromptStore) CreateForTask(ctx context.Context, prompt *model.Prompt, activity *model.Activity) (*model.Prompt, bool, error) {
	args := m.Called(ctx, prompt, activity)
	p, _ := args.Get(0).(*model.Prompt)
	return p, args.Bool(1), args.Error(2)
}

func (m *MockPromptStore) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Prompt)
	return p, args.Error(1)
}

func (m *MockPromptStore) FindByTask(ctx context.Context, taskID string) (*model.Prompt, error) {
	args := m.Called(ctx, taskID)
	p, _ := args.Get(0).(*model.Prompt)
	return p, args.Error(1)
}

func (m *MockPromptStore) ListByProject(ctx context.Context, projectID string) ([]model.Prompt, error) {
	args := m.Called(ctx, projectID)
	prompts, _ := args.Get(0).([]model.Prompt)
	return prompts, args.Error(1)
}

func (m *MockPromptStore) Update(ctx context.Context, prompt *model.Prompt) error {
	return m.Called(ctx, prompt).Error(0)
}

func (m *MockPromptStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockActivityStore struct {
	mock.Mock
}

func (m *MockActivityStore) Create(ctx context.Context, a *model.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityStore) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Activity, int64, error) {
	args := m.Called(ctx, projectID, limit, offset)
	activities, _ := args.Get(0).([]model.Activity)
	return activities, args.Get(1).(int64), args.Error(2)
}

type MockCaptureStore struct {
	mock.Mock
}

func (m *MockCaptureStore) List(ctx context.Context, deleted bool) ([]model.QuickCapture, error) {
	args := m.Called(ctx, deleted)
	captures, _ := args.Get(0).([]model.QuickCapture)
	return captures, args.Error(1)
}

func (m *MockCaptureStore) Create(ctx context.Context, c *model.QuickCapture) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCaptureStore) GetByID(ctx context.Context, id string) (*model.QuickCapture, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.QuickCapture)
	return c, args.Error(1)
}

func (m *MockCaptureStore) GetWithProject(ctx context.Context, id string) (*model.QuickCapture, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.QuickCapture)
	return c, args.Error(1)
}

func (m *MockCaptureStore) Update(ctx context.Context, c *model.QuickCapture) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCaptureStore) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCaptureStore) Restore(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCaptureStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingStore struct {
	mock.Mock
}

func (m *MockSettingStore) List(ctx context.Context) ([]model.AppSetting, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]model.AppSetting)
	return rows, args.Error(1)
}

func (m *MockSettingStore) UpsertMany(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}

type MockContextStore struct {
	mock.Mock
}

func (m *MockContextStore) Save(ctx context.Context, projectID, content string) (*model.ContextDocument, error) {
	args := m.Called(ctx, projectID, content)
	d, _ := args.Get(0).(*model.ContextDocument)
	return d, args.Error(1)
}

type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Export(ctx context.Context) (*repository.Snapshot, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*repository.Snapshot)
	return s, args.Error(1)
}

func (m *MockDataStore) ClearAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDataStore) PurgeDeleted(ctx context.Context, before time.Time) (*repository.PurgeResult, error) {
	args := m.Called(ctx, before)
	r, _ := args.Get(0).(*repository.PurgeResult)
	return r, args.Error(1)
}

// fakeSettings serves a fixed AI configuration and app settings.
type fakeSettings struct {
	cfg *settings.AIConfig
	app settings.AppSettings
}

func (f *fakeSettings) GetAIConfig(context.Context) *settings.AIConfig {
	if f.cfg == nil {
		return nil
	}
	cfg := *f.cfg
	return &cfg
}

func (f *fakeSettings) Load(context.Context) settings.AppSettings {
	return f.app
}

// stubProvider records requests and answers with a canned reply.
type stubProvider struct {
	reply string
	err   error
	calls []ai.CompletionRequest
	cfgs  []settings.AIConfig
}

func (s *stubProvider) factory(cfg *settings.AIConfig) (ai.ChatProvider, error) {
	s.cfgs = append(s.cfgs, *cfg)
	return s, nil
}

func (s *stubProvider) Complete(_ context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Completion{Content: s.reply}, nil
}
