package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibepm/internal/model"
)

func strPtr(s string) *string { return &s }

func task(id string, status model.TaskStatus) model.Task {
	return model.Task{ID: id, Title: "Task " + id, Status: status}
}

func TestPlace(t *testing.T) {
	tasks := []model.Task{
		task("t1", model.TaskTodo),
		task("t2", model.TaskTodo),
		task("t3", model.TaskInProgress),
		task("t4", model.TaskCompleted),
		task("t5", model.TaskBlocked),
	}
	prompts := []model.Prompt{
		{ID: "p2", TaskID: strPtr("t2"), Title: "Prompt for: Task t2"},
		{ID: "p3", TaskID: strPtr("t3")},
		{ID: "loose"},
	}

	b := Place(tasks, prompts)

	require.Len(t, b.Todo, 1)
	assert.Equal(t, "t1", b.Todo[0].Task.ID)
	require.Len(t, b.Prompts, 1)
	assert.Equal(t, "Task t2", b.Prompts[0].Title())
	assert.Equal(t, "p2", b.Prompts[0].Prompt.ID)
	require.Len(t, b.InProgress, 1)
	assert.Equal(t, "p3", b.InProgress[0].Prompt.ID)
	require.Len(t, b.Done, 1)
	assert.Equal(t, "t4", b.Done[0].Task.ID)
}

func TestPlace_TodoWithPromptNeverInTodoLane(t *testing.T) {
	tasks := []model.Task{task("a", model.TaskTodo), task("b", model.TaskTodo)}
	prompts := []model.Prompt{{ID: "pa", TaskID: strPtr("a")}, {ID: "pa2", TaskID: strPtr("a")}}

	b := Place(tasks, prompts)

	for _, c := range b.Todo {
		assert.NotEqual(t, "a", c.Task.ID)
	}
	require.Len(t, b.Prompts, 1)
	assert.Equal(t, "pa", b.Prompts[0].Prompt.ID)
}

func TestCanDrop_Table(t *testing.T) {
	todo := TaskItem(task("t", model.TaskTodo))
	inProgress := TaskItem(task("t", model.TaskInProgress))
	completed := TaskItem(task("t", model.TaskCompleted))
	blocked := TaskItem(task("t", model.TaskBlocked))
	linkedPrompt := PromptItem(model.Prompt{ID: "p", TaskID: strPtr("t")})
	loosePrompt := PromptItem(model.Prompt{ID: "p"})

	expected := map[DraggedItem]map[Lane]bool{
		todo:         {LanePrompts: true, LaneInProgress: true},
		inProgress:   {LaneTodo: true, LaneDone: true},
		completed:    {LaneInProgress: true},
		blocked:      {},
		linkedPrompt: {LaneInProgress: true},
		loosePrompt:  {},
		NoItem:       {},
	}

	for item, accepted := range expected {
		for _, lane := range Lanes {
			assert.Equal(t, accepted[lane], CanDrop(item, lane), "item %+v lane %s", item, lane)
		}
	}
}

func TestPlanDrop(t *testing.T) {
	tasks := []model.Task{
		task("ip", model.TaskInProgress),
		task("fresh", model.TaskTodo),
		task("ready", model.TaskTodo),
	}
	prompts := []model.Prompt{
		{ID: "p-ip", TaskID: strPtr("ip")},
		{ID: "p-ready", TaskID: strPtr("ready")},
	}
	b := Place(tasks, prompts)

	t.Run("in progress back to todo deletes prompt", func(t *testing.T) {
		got := PlanDrop(TaskItem(tasks[0]), LaneTodo, b, "proj")
		assert.Equal(t, []Action{
			{Kind: ActionUpdateTaskStatus, TaskID: "ip", Status: model.TaskTodo},
			{Kind: ActionDeletePrompt, TaskID: "ip", PromptID: "p-ip"},
			{Kind: ActionRefresh},
		}, got)
	})

	t.Run("todo onto prompts generates", func(t *testing.T) {
		got := PlanDrop(TaskItem(tasks[1]), LanePrompts, b, "proj")
		assert.Equal(t, []Action{
			{Kind: ActionGeneratePrompt, TaskID: "fresh", ProjectID: "proj"},
			{Kind: ActionRefresh},
		}, got)
	})

	t.Run("todo with prompt onto prompts only refreshes", func(t *testing.T) {
		got := PlanDrop(TaskItem(tasks[2]), LanePrompts, b, "proj")
		assert.Equal(t, []Action{{Kind: ActionRefresh}}, got)
	})

	t.Run("prompt card onto in progress moves its task", func(t *testing.T) {
		item := CardItem(LanePrompts, b.Prompts[0])
		got := PlanDrop(item, LaneInProgress, b, "proj")
		assert.Equal(t, []Action{
			{Kind: ActionUpdateTaskStatus, TaskID: "ready", Status: model.TaskInProgress},
			{Kind: ActionRefresh},
		}, got)
	})

	t.Run("in progress onto done completes", func(t *testing.T) {
		got := PlanDrop(TaskItem(tasks[0]), LaneDone, b, "proj")
		assert.Equal(t, model.TaskCompleted, got[0].Status)
	})

	t.Run("rejected drop plans nothing", func(t *testing.T) {
		assert.Nil(t, PlanDrop(TaskItem(tasks[1]), LaneDone, b, "proj"))
		assert.Nil(t, PlanDrop(NoItem, LaneTodo, b, "proj"))
	})
}
