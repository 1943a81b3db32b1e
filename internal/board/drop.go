package board

import "vibepm/internal/model"

type ItemKind int

const (
	ItemNone ItemKind = iota
	ItemTask
	ItemPrompt
)

// DraggedItem is what the user is dragging: a task, a prompt card or nothing.
type DraggedItem struct {
	Kind       ItemKind
	TaskID     string
	TaskStatus model.TaskStatus
	PromptID   string
}

var NoItem = DraggedItem{Kind: ItemNone}

func TaskItem(t model.Task) DraggedItem {
	return DraggedItem{Kind: ItemTask, TaskID: t.ID, TaskStatus: t.Status}
}

// PromptItem drags a prompt card; the card moves its linked task.
func PromptItem(p model.Prompt) DraggedItem {
	item := DraggedItem{Kind: ItemPrompt, PromptID: p.ID}
	if p.TaskID != nil {
		item.TaskID = *p.TaskID
	}
	return item
}

// CardItem drags whatever a card in the given lane represents.
func CardItem(lane Lane, c Card) DraggedItem {
	if lane == LanePrompts && c.Prompt != nil {
		return PromptItem(*c.Prompt)
	}
	return TaskItem(c.Task)
}

// CanDrop reports whether lane accepts the dragged item.
func CanDrop(item DraggedItem, lane Lane) bool {
	switch item.Kind {
	case ItemTask:
		switch lane {
		case LaneTodo:
			return item.TaskStatus == model.TaskInProgress
		case LanePrompts:
			return item.TaskStatus == model.TaskTodo
		case LaneInProgress:
			return item.TaskStatus == model.TaskTodo || item.TaskStatus == model.TaskCompleted
		case LaneDone:
			return item.TaskStatus == model.TaskInProgress
		}
	case ItemPrompt:
		return lane == LaneInProgress && item.TaskID != ""
	}
	return false
}

type ActionKind string

const (
	ActionUpdateTaskStatus ActionKind = "update_task_status"
	ActionDeletePrompt     ActionKind = "delete_prompt"
	ActionGeneratePrompt   ActionKind = "generate_prompt"
	ActionRefresh          ActionKind = "refresh"
)

// Action is one API call implied by a drop.
type Action struct {
	Kind      ActionKind
	TaskID    string
	PromptID  string
	ProjectID string
	Status    model.TaskStatus
}

func updateStatus(taskID string, status model.TaskStatus) Action {
	return Action{Kind: ActionUpdateTaskStatus, TaskID: taskID, Status: status}
}

var refresh = Action{Kind: ActionRefresh}

// PlanDrop lists the calls for dropping item on lane, in order. A rejected
// drop plans nothing.
func PlanDrop(item DraggedItem, lane Lane, b Board, projectID string) []Action {
	if !CanDrop(item, lane) {
		return nil
	}

	switch lane {
	case LaneTodo:
		actions := []Action{updateStatus(item.TaskID, model.TaskTodo)}
		if p := b.PromptFor(item.TaskID); p != nil {
			actions = append(actions, Action{Kind: ActionDeletePrompt, TaskID: item.TaskID, PromptID: p.ID})
		}
		return append(actions, refresh)

	case LanePrompts:
		if b.PromptFor(item.TaskID) != nil {
			return []Action{refresh}
		}
		return []Action{
			{Kind: ActionGeneratePrompt, TaskID: item.TaskID, ProjectID: projectID},
			refresh,
		}

	case LaneInProgress:
		return []Action{updateStatus(item.TaskID, model.TaskInProgress), refresh}

	case LaneDone:
		return []Action{updateStatus(item.TaskID, model.TaskCompleted), refresh}
	}
	return nil
}
