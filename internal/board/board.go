// Package board computes the four-lane kanban view of a project and plans
// the API calls a drag-and-drop implies.
package board

import "vibepm/internal/model"

type Lane string

const (
	LaneTodo       Lane = "todo"
	LanePrompts    Lane = "prompts"
	LaneInProgress Lane = "in_progress"
	LaneDone       Lane = "done"
)

// Lanes lists every lane in display order.
var Lanes = []Lane{LaneTodo, LanePrompts, LaneInProgress, LaneDone}

func (l Lane) Valid() bool {
	switch l {
	case LaneTodo, LanePrompts, LaneInProgress, LaneDone:
		return true
	}
	return false
}

// Card is a task and, when one is linked, its prompt. Cards in the
// Prompts lane are titled after the task.
type Card struct {
	Task   model.Task    `json:"task"`
	Prompt *model.Prompt `json:"prompt,omitempty"`
}

func (c Card) Title() string {
	return c.Task.Title
}

type Board struct {
	Todo       []Card `json:"todo"`
	Prompts    []Card `json:"prompts"`
	InProgress []Card `json:"inProgress"`
	Done       []Card `json:"done"`
}

// Lane returns the cards of one lane.
func (b Board) Lane(l Lane) []Card {
	switch l {
	case LaneTodo:
		return b.Todo
	case LanePrompts:
		return b.Prompts
	case LaneInProgress:
		return b.InProgress
	case LaneDone:
		return b.Done
	}
	return nil
}

// PromptFor finds the prompt linked to a task anywhere on the board.
func (b Board) PromptFor(taskID string) *model.Prompt {
	for _, lane := range [][]Card{b.Prompts, b.InProgress, b.Todo, b.Done} {
		for _, c := range lane {
			if c.Task.ID == taskID && c.Prompt != nil {
				return c.Prompt
			}
		}
	}
	return nil
}

// Place sorts tasks into lanes. A TODO task with a linked prompt goes to
// Prompts instead of Todo. BLOCKED and CANCELLED tasks are not on the board.
func Place(tasks []model.Task, prompts []model.Prompt) Board {
	byTask := make(map[string]*model.Prompt, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		if p.TaskID == nil {
			continue
		}
		if _, seen := byTask[*p.TaskID]; !seen {
			byTask[*p.TaskID] = p
		}
	}

	b := Board{Todo: []Card{}, Prompts: []Card{}, InProgress: []Card{}, Done: []Card{}}
	for _, t := range tasks {
		card := Card{Task: t, Prompt: byTask[t.ID]}
		switch t.Status {
		case model.TaskTodo:
			if card.Prompt != nil {
				b.Prompts = append(b.Prompts, card)
			} else {
				b.Todo = append(b.Todo, card)
			}
		case model.TaskInProgress:
			b.InProgress = append(b.InProgress, card)
		case model.TaskCompleted:
			b.Done = append(b.Done, card)
		}
	}
	return b
}
