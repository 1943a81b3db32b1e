package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"vibepm/internal/board"
	"vibepm/internal/contextdoc"
	"vibepm/internal/insights"
	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type ProjectHandler struct {
	projects   ProjectStore
	tasks      TaskStore
	prompts    PromptStore
	activities ActivityStore
	contexts   ContextStore
}

func NewProjectHandler(
	projects ProjectStore,
	tasks TaskStore,
	prompts PromptStore,
	activities ActivityStore,
	contexts ContextStore,
) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		tasks:      tasks,
		prompts:    prompts,
		activities: activities,
		contexts:   contexts,
	}
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name          string  `json:"name"`
	Problem       *string `json:"problem"`
	MvpDefinition *string `json:"mvpDefinition"`
}

// ActivityPage is one page of a project's activity feed.
type ActivityPage struct {
	Activities []model.Activity `json:"activities"`
	Total      int64            `json:"total"`
	HasMore    bool             `json:"hasMore"`
}

// BoardResponse is the kanban view of a project.
type BoardResponse struct {
	ProjectID string      `json:"projectId"`
	Slug      string      `json:"slug"`
	Lanes     board.Board `json:"lanes"`
}

// loadProject resolves :slug, writing the 404 or 500 itself when it fails.
func (h *ProjectHandler) loadProject(c *gin.Context, action string) (*model.Project, bool) {
	project, err := h.projects.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			notFound(c, "Project not found")
		} else {
			internalError(c, action, err)
		}
		return nil, false
	}
	return project, true
}

// uniqueSlug derives a slug from name and appends -1, -2, ... until unused.
func (h *ProjectHandler) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "project"
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := h.projects.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// List godoc
// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Param        deleted  query  bool  false  "only soft-deleted projects"
// @Success      200  {array}  model.Project
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), queryBool(c, "deleted"))
	if err != nil {
		internalError(c, "fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create godoc
// @Summary      Create a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        project  body  CreateProjectRequest  true  "project"
// @Success      201  {object}  model.Project
// @Failure      400  {object}  map[string]string
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		badRequest(c, "Project name is required")
		return
	}

	ctx := c.Request.Context()
	s, err := h.uniqueSlug(ctx, name)
	if err != nil {
		internalError(c, "create project", err)
		return
	}

	project := &model.Project{
		Slug:          s,
		Name:          name,
		Problem:       trimmedOrNil(req.Problem),
		MvpDefinition: trimmedOrNil(req.MvpDefinition),
		Status:        model.ProjectPlanning,
	}
	doc := contextdoc.Initial(project.Name, project.Problem, project.MvpDefinition)
	if err := h.projects.Create(ctx, project, doc); err != nil {
		internalError(c, "create project", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Get godoc
// @Summary      Get a project with phases, tasks, decisions and prompts
// @Tags         Projects
// @Produce      json
// @Param        slug  path  string  true  "project slug"
// @Success      200  {object}  model.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{slug} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.GetDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			notFound(c, "Project not found")
			return
		}
		internalError(c, "fetch project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Update applies a partial update. A blank name is ignored.
func (h *ProjectHandler) Update(c *gin.Context) {
	body, ok := bindPatch(c)
	if !ok {
		return
	}
	project, ok := h.loadProject(c, "update project")
	if !ok {
		return
	}

	name, _, err := body.String("name")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if name = strings.TrimSpace(name); name != "" {
		project.Name = name
	}
	if v, present, err := body.NullableString("problem"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		project.Problem = v
	}
	if v, present, err := body.NullableString("mvpDefinition"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		project.MvpDefinition = v
	}
	if status, present, err := body.String("status"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present && status != "" {
		if !model.ProjectStatus(status).Valid() {
			badRequest(c, "Invalid status")
			return
		}
		project.Status = model.ProjectStatus(status)
	}

	if err := h.projects.Update(c.Request.Context(), project); err != nil {
		internalError(c, "update project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete soft-deletes the project, or removes it for good with ?permanent=true.
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := h.loadProject(c, "delete project")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if queryBool(c, "permanent") {
		err := h.projects.Delete(ctx, project.ID)
		if err != nil {
			internalError(c, "delete project", err)
			return
		}
	} else if err := h.projects.SoftDelete(ctx, project.ID); err != nil {
		internalError(c, "delete project", err)
		return
	}
	success(c)
}

func (h *ProjectHandler) Restore(c *gin.Context) {
	project, ok := h.loadProject(c, "restore project")
	if !ok {
		return
	}
	if project.DeletedAt == nil {
		badRequest(c, "Project is not deleted")
		return
	}
	if err := h.projects.Restore(c.Request.Context(), project.ID); err != nil {
		internalError(c, "restore project", err)
		return
	}
	project.DeletedAt = nil
	c.JSON(http.StatusOK, project)
}

// Activity godoc
// @Summary      Page through a project's activity feed
// @Tags         Projects
// @Produce      json
// @Param        slug    path   string  true   "project slug"
// @Param        limit   query  int     false  "page size (default 10)"
// @Param        offset  query  int     false  "offset (default 0)"
// @Success      200  {object}  ActivityPage
// @Router       /api/projects/{slug}/activity [get]
func (h *ProjectHandler) Activity(c *gin.Context) {
	project, ok := h.loadProject(c, "fetch activities")
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 10)
	offset := queryInt(c, "offset", 0)

	activities, total, err := h.activities.ListByProject(c.Request.Context(), project.ID, limit, offset)
	if err != nil {
		internalError(c, "fetch activities", err)
		return
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	c.JSON(http.StatusOK, ActivityPage{
		Activities: activities,
		Total:      total,
		HasMore:    int64(offset+len(activities)) < total,
	})
}

// RegenerateContext rebuilds the context document from the current tasks.
func (h *ProjectHandler) RegenerateContext(c *gin.Context) {
	project, ok := h.loadProject(c, "generate context")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	tasks, err := h.tasks.ListByProject(ctx, project.ID)
	if err != nil {
		internalError(c, "generate context", err)
		return
	}
	doc, err := h.contexts.Save(ctx, project.ID, contextdoc.Generate(project, tasks))
	if err != nil {
		internalError(c, "generate context", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ProjectHandler) Insights(c *gin.Context) {
	project, ok := h.loadProject(c, "generate insights")
	if !ok {
		return
	}
	tasks, prompts, ok := h.tasksAndPrompts(c, project.ID, "generate insights")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, insights.Generate(tasks, prompts, time.Now()))
}

// Board godoc
// @Summary      Kanban lanes for a project
// @Tags         Projects
// @Produce      json
// @Param        slug  path  string  true  "project slug"
// @Success      200  {object}  BoardResponse
// @Router       /api/projects/{slug}/board [get]
func (h *ProjectHandler) Board(c *gin.Context) {
	project, ok := h.loadProject(c, "fetch board")
	if !ok {
		return
	}
	tasks, prompts, ok := h.tasksAndPrompts(c, project.ID, "fetch board")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, BoardResponse{
		ProjectID: project.ID,
		Slug:      project.Slug,
		Lanes:     board.Place(tasks, prompts),
	})
}

func (h *ProjectHandler) tasksAndPrompts(c *gin.Context, projectID, action string) ([]model.Task, []model.Prompt, bool) {
	ctx := c.Request.Context()
	tasks, err := h.tasks.ListByProject(ctx, projectID)
	if err != nil {
		internalError(c, action, err)
		return nil, nil, false
	}
	prompts, err := h.prompts.ListByProject(ctx, projectID)
	if err != nil {
		internalError(c, action, err)
		return nil, nil, false
	}
	return tasks, prompts, true
}
