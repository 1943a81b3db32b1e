package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vibepm/internal/model"
)

var (
	// ErrDropRejected is returned when the lane does not accept the item.
	ErrDropRejected = errors.New("drop not accepted by lane")

	// ErrGenerateInFlight is returned for a second prompt generation on a
	// task whose first one has not finished.
	ErrGenerateInFlight = errors.New("prompt generation already in progress")
)

// Mutator performs the API calls behind board actions.
type Mutator interface {
	UpdateTaskStatus(ctx context.Context, taskID string, status model.TaskStatus) error
	DeletePrompt(ctx context.Context, promptID string) error
	GeneratePrompt(ctx context.Context, taskID, projectID string) error
	Refresh(ctx context.Context) error
}

// Executor runs planned actions and allows one prompt generation per task at a time.
type Executor struct {
	m Mutator

	mu         sync.Mutex
	generating map[string]struct{}
}

func NewExecutor(m Mutator) *Executor {
	return &Executor{m: m, generating: make(map[string]struct{})}
}

// Drop plans and runs a drop.
func (e *Executor) Drop(ctx context.Context, item DraggedItem, lane Lane, b Board, projectID string) error {
	actions := PlanDrop(item, lane, b, projectID)
	if len(actions) == 0 {
		return ErrDropRejected
	}
	return e.Run(ctx, actions)
}

// Run executes actions in order and stops at the first failure.
func (e *Executor) Run(ctx context.Context, actions []Action) error {
	for _, a := range actions {
		if err := e.run(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) run(ctx context.Context, a Action) error {
	switch a.Kind {
	case ActionUpdateTaskStatus:
		if err := e.m.UpdateTaskStatus(ctx, a.TaskID, a.Status); err != nil {
			return fmt.Errorf("update task %s: %w", a.TaskID, err)
		}
	case ActionDeletePrompt:
		if err := e.m.DeletePrompt(ctx, a.PromptID); err != nil {
			return fmt.Errorf("delete prompt %s: %w", a.PromptID, err)
		}
	case ActionGeneratePrompt:
		if !e.acquire(a.TaskID) {
			return ErrGenerateInFlight
		}
		defer e.release(a.TaskID)
		if err := e.m.GeneratePrompt(ctx, a.TaskID, a.ProjectID); err != nil {
			return fmt.Errorf("generate prompt for %s: %w", a.TaskID, err)
		}
	case ActionRefresh:
		return e.m.Refresh(ctx)
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	return nil
}

func (e *Executor) acquire(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.generating[taskID]; busy {
		return false
	}
	e.generating[taskID] = struct{}{}
	return true
}

func (e *Executor) release(taskID string) {
	e.mu.Lock()
	delete(e.generating, taskID)
	e.mu.Unlock()
}

// Generating reports whether a prompt is being generated for the task.
func (e *Executor) Generating(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, busy := e.generating[taskID]
	return busy
}
