package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibepm/internal/handler"
	"vibepm/internal/model"
	"vibepm/internal/repository"
)

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body["error"]
}

func setupTaskRouter() (*gin.Engine, *MockTaskStore) {
	r := gin.New()
	tasks := new(MockTaskStore)
	h := handler.NewTaskHandler(tasks)
	r.POST("/api/tasks", h.Create)
	r.GET("/api/tasks/:id", h.GetByID)
	r.PATCH("/api/tasks/:id", h.Update)
	r.DELETE("/api/tasks/:id", h.Delete)
	return r, tasks
}

func TestCreateTask_Defaults(t *testing.T) {
	// Arrange
	router, tasks := setupTaskRouter()
	var logged *model.Activity
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task"), mock.AnythingOfType("*model.Activity")).
		Run(func(args mock.Arguments) {
			task := args.Get(1).(*model.Task)
			task.ID = "t1"
			task.Order = 0
			logged = args.Get(2).(*model.Activity)
		}).
		Return(nil)

	// Act
	resp := performRequest(router, "POST", "/api/tasks", map[string]string{
		"projectId": "p1",
		"title":     "Build login",
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	var task model.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	assert.Equal(t, "Build login", task.Title)
	assert.Equal(t, model.TaskTodo, task.Status)
	assert.Equal(t, model.ComplexityMedium, task.Complexity)
	assert.Equal(t, 0, task.Order)

	require.NotNil(t, logged)
	assert.Equal(t, model.ActivityTaskCreated, logged.Type)
	assert.Equal(t, `Created task "Build login"`, logged.Title)
	assert.Equal(t, "p1", logged.ProjectID)
	tasks.AssertExpectations(t)
}

func TestCreateTask_Validation(t *testing.T) {
	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing project", map[string]string{"title": "x"}, "Project ID is required"},
		{"blank title", map[string]string{"projectId": "p1", "title": "   "}, "Title is required"},
		{"bad complexity", map[string]string{"projectId": "p1", "title": "x", "complexity": "HUGE"}, "Invalid complexity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, tasks := setupTaskRouter()

			resp := performRequest(router, "POST", "/api/tasks", tc.body)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tc.want, decodeError(t, resp))
			tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateTask_ProjectNotFound(t *testing.T) {
	router, tasks := setupTaskRouter()
	tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrProjectNotFound)

	resp := performRequest(router, "POST", "/api/tasks", map[string]string{"projectId": "nope", "title": "x"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Project not found", decodeError(t, resp))
}

func TestUpdateTask_StatusChangeLogsOnce(t *testing.T) {
	// Arrange
	router, tasks := setupTaskRouter()
	existing := &model.Task{ID: "t1", ProjectID: "p1", Title: "Build login", Status: model.TaskTodo, Complexity: model.ComplexityMedium}
	tasks.On("GetByID", mock.Anything, "t1").Return(existing, nil)
	var logged *model.Activity
	tasks.On("Update", mock.Anything, existing, mock.AnythingOfType("*model.Activity")).
		Run(func(args mock.Arguments) { logged = args.Get(2).(*model.Activity) }).
		Return(nil).Once()

	// Act
	resp := performRequest(router, "PATCH", "/api/tasks/t1", map[string]string{
		"status": "IN_PROGRESS",
		"title":  "Build login page",
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, logged)
	assert.Equal(t, model.ActivityTaskStatusChanged, logged.Type)
	assert.Equal(t, `Moved "Build login" to In Progress`, logged.Title)

	var meta map[string]string
	require.NoError(t, json.Unmarshal(logged.Metadata, &meta))
	assert.Equal(t, "TODO", meta["oldStatus"])
	assert.Equal(t, "IN_PROGRESS", meta["newStatus"])
	tasks.AssertExpectations(t)
}

func TestUpdateTask_SameStatusNoActivity(t *testing.T) {
	router, tasks := setupTaskRouter()
	existing := &model.Task{ID: "t1", ProjectID: "p1", Title: "Build login", Status: model.TaskTodo}
	tasks.On("GetByID", mock.Anything, "t1").Return(existing, nil)
	tasks.On("Update", mock.Anything, existing, (*model.Activity)(nil)).Return(nil)

	resp := performRequest(router, "PATCH", "/api/tasks/t1", map[string]string{"status": "TODO"})

	assert.Equal(t, http.StatusOK, resp.Code)
	tasks.AssertExpectations(t)
}

func TestUpdateTask_ClearsDescriptionWithNull(t *testing.T) {
	router, tasks := setupTaskRouter()
	desc := "old"
	existing := &model.Task{ID: "t1", ProjectID: "p1", Title: "x", Status: model.TaskTodo, Description: &desc}
	tasks.On("GetByID", mock.Anything, "t1").Return(existing, nil)
	tasks.On("Update", mock.Anything, existing, (*model.Activity)(nil)).Return(nil)

	resp := performRequest(router, "PATCH", "/api/tasks/t1", `{"description": null, "order": 4}`)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, existing.Description)
	assert.Equal(t, 4, existing.Order)
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	router, tasks := setupTaskRouter()
	tasks.On("GetByID", mock.Anything, "t1").Return(&model.Task{ID: "t1", Status: model.TaskTodo}, nil)

	resp := performRequest(router, "PATCH", "/api/tasks/t1", map[string]string{"status": "DONE"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTask_NotFound(t *testing.T) {
	router, tasks := setupTaskRouter()
	tasks.On("GetDetail", mock.Anything, "missing").Return(nil, repository.ErrTaskNotFound)

	resp := performRequest(router, "GET", "/api/tasks/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Task not found", decodeError(t, resp))
}

func TestDeleteTask(t *testing.T) {
	router, tasks := setupTaskRouter()
	tasks.On("Delete", mock.Anything, "t1").Return(nil)

	resp := performRequest(router, "DELETE", "/api/tasks/t1", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
}
